package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/dmitrijs2005/cahierdeveille/internal/client/editor"
	"github.com/dmitrijs2005/cahierdeveille/internal/common"
	"github.com/dmitrijs2005/cahierdeveille/internal/filex"
	"github.com/dmitrijs2005/cahierdeveille/internal/promptx"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
	"github.com/dmitrijs2005/cahierdeveille/internal/timex"
)

var errUsage = errors.New("invalid arguments, see help")

// now is a test seam for new rows.
var now = time.Now

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func (a *App) ask(prompt string) (string, error) {
	return promptx.GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) Register(ctx context.Context, _ []string) error {
	var req models.RegisterRequest
	var err error

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Nom de l'opérateur", &req.Operator},
		{"Matricule", &req.Matricule},
		{"Service", &req.Service},
		{"E-mail", &req.Email},
	} {
		if *f.dst, err = a.ask(f.prompt); err != nil {
			return err
		}
	}

	if req.Password, err = promptx.GetPassword(a.reader, "Mot de passe", a.out); err != nil {
		return err
	}
	confirm, err := promptx.GetPassword(a.reader, "Confirmer le mot de passe", a.out)
	if err != nil {
		return err
	}
	req.ConfirmPassword = &confirm

	accepted := true
	req.RGPD = &accepted

	if err := a.api.Register(ctx, req); err != nil {
		return err
	}
	a.printf("Compte créé, vous pouvez vous connecter\n")
	return nil
}

func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := a.ask("E-mail")
	if err != nil {
		return err
	}
	password, err := promptx.GetPassword(a.reader, "Mot de passe", a.out)
	if err != nil {
		return err
	}

	u, err := a.api.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return errors.New("e-mail ou mot de passe invalide")
		}
		return err
	}
	a.user = u
	a.printf("Login successful\n")
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	a.user = nil
	return a.editor.Load(ctx, 0)
}

func (a *App) Dashboard(ctx context.Context, _ []string) error {
	d, err := a.api.Dashboard(ctx)
	if err != nil {
		return err
	}

	a.printf("Bonjour %s\n", d.RedacteurName)
	a.printf("Cahiers actifs : %d\n", d.TotalCahiers)
	for _, c := range d.RecentCahiers {
		a.printf("  #%d %s (%s)\n", c.ID, c.Evenement, timex.FormatHeure(c.UpdatedAt))
	}

	days := make([]string, 0, len(d.ActivityByDay))
	for day := range d.ActivityByDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		a.printf("  %s %s\n", day, strings.Repeat("■", d.ActivityByDay[day]))
	}
	return nil
}

func (a *App) List(ctx context.Context, args []string) error {
	archived := len(args) > 0 && args[0] == "archived"
	list, err := a.api.ListCahiers(ctx, archived)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.printf("Aucun cahier\n")
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEVENEMENT\tMIS A JOUR")
	for _, c := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Evenement, timex.FormatHeure(c.UpdatedAt))
	}
	return w.Flush()
}

func (a *App) New(ctx context.Context, _ []string) error {
	if err := a.editor.Load(ctx, 0); err != nil {
		return err
	}
	a.printf("Nouveau cahier\n")
	return nil
}

func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errUsage
	}
	if err := a.editor.Load(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("cahier %d introuvable", id)
		}
		return err
	}
	return a.Show(ctx, nil)
}

// EditEvent prompts for every event field. An empty answer keeps the
// current value.
func (a *App) EditEvent(_ context.Context, _ []string) error {
	ev := a.editor.Event()
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Evénement", &ev.Evenement},
		{"Rédacteur", &ev.Redacteur},
		{"Poste", &ev.Poste},
		{"Fréquence", &ev.Frequence},
		{"Responsable", &ev.Responsable},
	} {
		v, err := a.ask(fmt.Sprintf("%s [%s]", f.prompt, *f.dst))
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = v
		}
	}
	a.editor.SetEvent(ev)
	return nil
}

func (a *App) Show(_ context.Context, _ []string) error {
	ev := a.editor.Event()
	rows := a.editor.Rows()
	col, dir := a.editor.Sort()

	a.mu.Lock()
	defer a.mu.Unlock()

	fmt.Fprintf(a.out, "Evénement : %s\nRédacteur : %s\nPoste : %s\nFréquence : %s\nResponsable : %s\n",
		ev.Evenement, ev.Redacteur, ev.Poste, ev.Frequence, ev.Responsable)
	if a.editor.Archived() {
		fmt.Fprintln(a.out, color.New(color.FgYellow).Sprint("archivé"))
	}
	if dir != editor.Unsorted {
		arrow := "↑"
		if dir == editor.Desc {
			arrow = "↓"
		}
		fmt.Fprintf(a.out, "Tri : %s %s\n", col, arrow)
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tHEURE\tAPPELE\tAPPELANT\tCOMMUNICATION")
	for i, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i, timex.FormatHeure(r.Heure), r.Appele, r.Appelant, r.Communication)
	}
	return w.Flush()
}

func (a *App) AddRow(_ context.Context, _ []string) error {
	i := a.editor.AddRow(now())
	a.printf("Ligne %d ajoutée\n", i)
	return nil
}

func rowArg(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, errUsage
	}
	return i, nil
}

func (a *App) Set(_ context.Context, args []string) error {
	if len(args) < 3 {
		return errUsage
	}
	i, err := rowArg(args[0])
	if err != nil {
		return err
	}
	return a.editor.SetField(i, editor.Column(args[1]), strings.Join(args[2:], " "))
}

func (a *App) DeleteRow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	i, err := rowArg(args[0])
	if err != nil {
		return err
	}
	return a.editor.DeleteRow(ctx, i)
}

func (a *App) Sort(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := a.editor.ToggleSort(editor.Column(args[0])); err != nil {
		return err
	}
	return a.Show(ctx, nil)
}

func (a *App) Save(ctx context.Context, _ []string) error {
	if err := a.editor.Save(ctx); err != nil {
		return err
	}
	a.printf("Cahier #%d enregistré\n", a.editor.ID())
	return nil
}

func (a *App) Archive(ctx context.Context, _ []string) error {
	if err := a.editor.Archive(ctx); err != nil {
		if errors.Is(err, common.ErrNotSaved) {
			return errors.New("enregistrez le cahier avant de l'archiver")
		}
		return err
	}
	a.printf("Cahier archivé\n")
	return nil
}

// CallSign lists the call-signs and proposals, or adds/removes one.
func (a *App) CallSign(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printf("Indicatifs : %s\n", strings.Join(a.editor.Indicatifs(), ", "))
		if p := a.editor.Proposals(); len(p) > 0 {
			a.printf("Proposés : %s\n", strings.Join(p, ", "))
		}
		return nil
	}
	if len(args) < 2 {
		return errUsage
	}

	label := strings.Join(args[1:], " ")
	var err error
	switch args[0] {
	case "add":
		err = a.editor.RegisterCallSign(ctx, label)
	case "rm":
		err = a.editor.RemoveCallSign(ctx, label)
	default:
		return errUsage
	}

	switch {
	case errors.Is(err, common.ErrNotSaved):
		return errors.New("enregistrez le cahier avant de gérer les indicatifs")
	case errors.Is(err, common.ErrorAlreadyExists):
		return errors.New("cet indicatif existe déjà")
	}
	return err
}

func (a *App) Export(ctx context.Context, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	data, name, err := a.editor.Export(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotSaved) {
			return errors.New("enregistrez le cahier avant de l'exporter")
		}
		return err
	}

	dir, err = filex.EnsureDir(dir)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	if err := filex.WriteFileAtomic(path, data); err != nil {
		return err
	}
	a.printf("PDF écrit : %s\n", path)
	return nil
}
