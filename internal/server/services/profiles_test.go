package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/profiles"
)

func TestProfile_GetAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.register(t, "a@police.belgium.eu")

	view, err := env.profiles.Get(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "J. Dupont", view.Operator)
	assert.Equal(t, "1234", view.Matricule)
	assert.False(t, view.HasSignature)

	err = env.profiles.Update(ctx, sess, ProfileUpdate{Operator: "Jean Dupont", Matricule: "99", Service: "Trafic"})
	require.NoError(t, err)

	view, err = env.profiles.Get(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "Jean Dupont", view.Operator)
	assert.Equal(t, "Trafic", view.Service)
}

func TestProfile_PasswordChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.register(t, "a@police.belgium.eu")

	err := env.profiles.Update(ctx, sess, ProfileUpdate{Operator: "x", NewPassword: "newpass", ConfirmPassword: "other"})
	assert.EqualError(t, err, MsgProfilePasswordMismatch)

	err = env.profiles.Update(ctx, sess, ProfileUpdate{Operator: "x", NewPassword: "newpass", ConfirmPassword: "newpass"})
	require.NoError(t, err)

	_, _, err = env.accounts.Login(ctx, "a@police.belgium.eu", "secret1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, _, err = env.accounts.Login(ctx, "a@police.belgium.eu", "newpass")
	assert.NoError(t, err)
}

func TestProfile_SetImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.register(t, "a@police.belgium.eu")
	img := testPNG(t)

	require.NoError(t, env.profiles.SetImage(ctx, sess, profiles.ImageSignature, EncodePNGDataURL(img)))
	require.NoError(t, env.profiles.SetImage(ctx, sess, profiles.ImageParaphe, EncodePNGDataURL(img)))
	// replacing keeps a single current image
	require.NoError(t, env.profiles.SetImage(ctx, sess, profiles.ImageSignature, EncodePNGDataURL(img)))

	view, err := env.profiles.Get(ctx, sess)
	require.NoError(t, err)
	assert.True(t, view.HasSignature)
	assert.True(t, view.HasParaphe)
	assert.Equal(t, EncodePNGDataURL(img), view.Signature)

	sig, par, err := env.profiles.Images(ctx, sess.UserID)
	require.NoError(t, err)
	assert.Equal(t, img, sig)
	assert.Equal(t, img, par)

	err = env.profiles.SetImage(ctx, sess, profiles.ImageSignature, "data:image/jpeg;base64,AAAA")
	assert.ErrorIs(t, err, common.ErrorValidation)
	err = env.profiles.SetImage(ctx, sess, "stamp", EncodePNGDataURL(img))
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestDecodePNGDataURL(t *testing.T) {
	img := testPNG(t)

	got, err := DecodePNGDataURL(EncodePNGDataURL(img))
	require.NoError(t, err)
	assert.Equal(t, img, got)

	_, err = DecodePNGDataURL("data:image/png;base64,!!!")
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = DecodePNGDataURL("data:image/png;base64,aGVsbG8=")
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, "", EncodePNGDataURL(nil))
}
