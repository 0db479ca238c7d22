package httpapi

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/services"
)

func saveBody() map[string]any {
	return map[string]any{
		"evenement":   "Incident A",
		"redacteur":   "J. Dupont",
		"poste":       "PC",
		"frequence":   "F1",
		"responsable": "Cdt",
		"communications": []map[string]any{
			{"appele": "Alpha1", "appelant": "Base", "heure": "2026-10-19T08:00:00Z", "communication": "RAS"},
		},
		"indicatifs": []string{"Alpha1", "Base"},
	}
}

func TestCahierLifecycle(t *testing.T) {
	c := newTestServer(t, Options{})
	c.signIn("a@police.belgium.eu")

	var created models.CahierDetail
	status := c.decode("POST", "/api/cahiers", saveBody(), &created)
	require.Equal(t, http.StatusCreated, status)
	id := created.Cahier.ID
	require.NotZero(t, id)
	require.Len(t, created.Communications, 1)
	commID := created.Communications[0].ID
	assert.NotZero(t, commID)

	var got models.CahierDetail
	status = c.decode("GET", fmt.Sprintf("/api/cahiers/%d", id), nil, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Incident A", got.Cahier.Evenement)
	assert.Equal(t, []string{"Alpha1", "Base"}, got.Indicatifs)

	body := saveBody()
	body["evenement"] = "Incident A (suite)"
	body["communications"] = []map[string]any{
		{"id": commID, "appele": "Alpha1", "appelant": "Base", "heure": "2026-10-19T08:00:00Z", "communication": "RAS, fin"},
		{"appele": "Bravo", "appelant": "Base", "heure": "19/10/2026 11:00:00", "communication": "en route"},
	}
	var updated models.CahierDetail
	status = c.decode("PUT", fmt.Sprintf("/api/cahiers/%d", id), body, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Incident A (suite)", updated.Cahier.Evenement)
	require.Len(t, updated.Communications, 2)
	assert.Equal(t, "RAS, fin", updated.Communications[0].Communication)

	// call-signs
	status, _, _ = c.do("POST", fmt.Sprintf("/api/cahiers/%d/indicatifs", id), map[string]string{"indicatif": "Charlie 2"})
	assert.Equal(t, http.StatusCreated, status)
	status, _, _ = c.do("POST", fmt.Sprintf("/api/cahiers/%d/indicatifs", id), map[string]string{"indicatif": "Charlie 2"})
	assert.Equal(t, http.StatusConflict, status)
	var blank map[string]string
	status = c.decode("POST", fmt.Sprintf("/api/cahiers/%d/indicatifs", id), map[string]string{"indicatif": "  "}, &blank)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, services.MsgIndicatifRequired, blank["error"])

	status, _, _ = c.do("DELETE", fmt.Sprintf("/api/cahiers/%d/indicatifs/%s", id, url.PathEscape("Charlie 2")), nil)
	assert.Equal(t, http.StatusOK, status)
	var labels map[string][]string
	c.decode("GET", fmt.Sprintf("/api/cahiers/%d/indicatifs", id), nil, &labels)
	assert.Equal(t, []string{"Alpha1", "Base"}, labels["indicatifs"])

	// labels holding escape sequences or slashes are matched literally
	for _, label := range []string{"A%20B", "Nord/Sud"} {
		status, _, _ = c.do("POST", fmt.Sprintf("/api/cahiers/%d/indicatifs", id), map[string]string{"indicatif": label})
		require.Equal(t, http.StatusCreated, status, label)
		status, _, _ = c.do("DELETE", fmt.Sprintf("/api/cahiers/%d/indicatifs/%s", id, url.PathEscape(label)), nil)
		assert.Equal(t, http.StatusOK, status, label)
	}
	labels = nil
	c.decode("GET", fmt.Sprintf("/api/cahiers/%d/indicatifs", id), nil, &labels)
	assert.Equal(t, []string{"Alpha1", "Base"}, labels["indicatifs"])

	// delete a row
	status, _, _ = c.do("DELETE", fmt.Sprintf("/api/cahiers/%d/communications/%d", id, commID), nil)
	assert.Equal(t, http.StatusOK, status)
	status, _, _ = c.do("DELETE", fmt.Sprintf("/api/cahiers/%d/communications/%d", id, commID), nil)
	assert.Equal(t, http.StatusNotFound, status)

	// export
	status, pdf, hdr := c.do("GET", fmt.Sprintf("/api/cahiers/%d/export", id), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/pdf", hdr.Get("Content-Type"))
	assert.Contains(t, hdr.Get("Content-Disposition"), "attachment; filename=")
	assert.Contains(t, hdr.Get("Content-Disposition"), "Cahier_de_veille-Incident_A__suite_")
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	// archive
	status, _, _ = c.do("POST", fmt.Sprintf("/api/cahiers/%d/archive", id), nil)
	assert.Equal(t, http.StatusOK, status)

	var active, archived struct {
		Cahiers []models.Cahier `json:"cahiers"`
	}
	c.decode("GET", "/api/cahiers", nil, &active)
	assert.Empty(t, active.Cahiers)
	c.decode("GET", "/api/cahiers?archived=true", nil, &archived)
	require.Len(t, archived.Cahiers, 1)
	assert.True(t, archived.Cahiers[0].Archived)
}

func TestCahier_Errors(t *testing.T) {
	c := newTestServer(t, Options{})
	c.signIn("a@police.belgium.eu")

	status, _, _ := c.do("GET", "/api/cahiers/abc", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _, _ = c.do("GET", "/api/cahiers/999", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _, _ = c.do("PUT", "/api/cahiers/999", saveBody())
	assert.Equal(t, http.StatusNotFound, status)

	body := saveBody()
	body["communications"] = []map[string]any{{"appele": "A", "heure": "n'importe quand"}}
	status, _, _ = c.do("POST", "/api/cahiers", body)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, _ = c.do("POST", "/api/cahiers", "not an object")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCahier_OtherUserSeesNotFound(t *testing.T) {
	alice := newTestServer(t, Options{})
	alice.signIn("alice@police.belgium.eu")

	var created models.CahierDetail
	require.Equal(t, http.StatusCreated, alice.decode("POST", "/api/cahiers", saveBody(), &created))

	// same server, second browser
	bob := &apiClient{t: t, base: alice.base, http: &http.Client{Jar: newJar(t)}}
	bob.signIn("bob@police.belgium.eu")

	status, _, _ := bob.do("GET", fmt.Sprintf("/api/cahiers/%d", created.Cahier.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _, _ = bob.do("GET", fmt.Sprintf("/api/cahiers/%d/export", created.Cahier.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSaveCahierLegacy(t *testing.T) {
	c := newTestServer(t, Options{})

	body := map[string]any{
		"eventDetails": map[string]string{"evenement": "Concert", "redacteur": "J. Dupont"},
		"communications": []map[string]string{
			{"appele": "A", "appelant": "B", "heure": "19/10/2026, 14:03:05", "communication": "RAS"},
		},
	}

	status, out, _ := c.do("POST", "/api/save-cahier", body)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"success":false,"error":"Unauthorized"}`, string(out))

	c.signIn("a@police.belgium.eu")

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID             int64                  `json:"id"`
			Evenement      string                 `json:"evenement"`
			Communications []models.Communication `json:"communications"`
		} `json:"data"`
	}
	status = c.decode("POST", "/api/save-cahier", body, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
	assert.NotZero(t, resp.Data.ID)
	assert.Equal(t, "Concert", resp.Data.Evenement)
	require.Len(t, resp.Data.Communications, 1)
	assert.Equal(t, 12, resp.Data.Communications[0].Heure.UTC().Hour())
}

func TestProfileEndpoints(t *testing.T) {
	c := newTestServer(t, Options{})
	c.signIn("a@police.belgium.eu")

	var view services.ProfileView
	require.Equal(t, http.StatusOK, c.decode("GET", "/api/profile", nil, &view))
	assert.Equal(t, "J. Dupont", view.Operator)
	assert.Equal(t, "a@police.belgium.eu", view.Email)

	var mismatch map[string]string
	status := c.decode("PUT", "/api/profile", map[string]string{
		"operator": "Jean", "newPassword": "abcdef", "confirmPassword": "abcdeg",
	}, &mismatch)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Les mots de passe ne correspondent pas.", mismatch["error"])

	status, _, _ = c.do("PUT", "/api/profile", map[string]string{"operator": "Jean", "matricule": "1", "service": "S"})
	assert.Equal(t, http.StatusOK, status)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	status, _, _ = c.do("PUT", "/api/profile/signature", map[string]string{"image": services.EncodePNGDataURL(buf.Bytes())})
	assert.Equal(t, http.StatusOK, status)
	status, _, _ = c.do("PUT", "/api/profile/paraphe", map[string]string{"image": "data:text/plain;base64,AAAA"})
	assert.Equal(t, http.StatusBadRequest, status)

	require.Equal(t, http.StatusOK, c.decode("GET", "/api/profile", nil, &view))
	assert.Equal(t, "Jean", view.Operator)
	assert.True(t, view.HasSignature)
	assert.False(t, view.HasParaphe)
}

func TestDashboardEndpoint(t *testing.T) {
	c := newTestServer(t, Options{})
	c.signIn("a@police.belgium.eu")

	for i := 0; i < 6; i++ {
		require.Equal(t, http.StatusCreated, c.decode("POST", "/api/cahiers", saveBody(), nil))
	}

	var d map[string]any
	require.Equal(t, http.StatusOK, c.decode("GET", "/api/dashboard", nil, &d))
	assert.EqualValues(t, 6, d["totalCahiers"])
	assert.Len(t, d["recentCahiers"], 5)
	assert.Len(t, d["activity"], 6)
	assert.Equal(t, "J. Dupont", d["redacteurName"])
	assert.NotEmpty(t, d["activityByDay"])
}
