package submit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formkit/pkg/submit"
)

func TestEnvelopeStringErrorMessages(t *testing.T) {
	env, err := submit.ParseEnvelope([]byte(`{"errorMessages":"record is locked"}`))
	require.NoError(t, err)
	require.NotNil(t, env.ErrorMessages)
	require.Equal(t, "record is locked", env.ErrorMessages.Global)
	require.Empty(t, env.ErrorMessages.Fields)
}

func TestEnvelopeMapErrorMessages(t *testing.T) {
	env, err := submit.ParseEnvelope([]byte(`{"errorMessages":{"email":"taken","name":"too short"}}`))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"email": "taken", "name": "too short"}, env.ErrorMessages.Fields)
	require.Empty(t, env.ErrorMessages.Global)
}

func TestEnvelopeRejectsOtherShapes(t *testing.T) {
	_, err := submit.ParseEnvelope([]byte(`{"errorMessages":[1,2]}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "string or an object")
}

func TestEnvelopeToastsAndBuffer(t *testing.T) {
	env, err := submit.ParseEnvelope([]byte(`{
		"toastMessages":[{"message":"saved","type":"success"}],
		"buffer":"<p>done</p>"
	}`))
	require.NoError(t, err)
	require.Nil(t, env.ErrorMessages)
	require.Len(t, env.ToastMessages, 1)
	require.Equal(t, "success", env.ToastMessages[0].Type)
	require.Equal(t, "<p>done</p>", env.Buffer)
}

func TestDistributeRoutesKnownFields(t *testing.T) {
	env, err := submit.ParseEnvelope([]byte(`{"errorMessages":{"email":"__invalid__"}}`))
	require.NoError(t, err)

	fieldErrs, formErrs := env.Distribute([]string{"name", "email", "country"})
	require.Equal(t, map[string]string{"email": "__invalid__"}, fieldErrs)
	require.Empty(t, formErrs, "banner stays hidden when every key matches")
}

func TestDistributeUnmatchedKeysBecomeFormLevel(t *testing.T) {
	env, err := submit.ParseEnvelope([]byte(`{"errorMessages":{"email":"taken","ghost":"boo","zebra":"stripes"}}`))
	require.NoError(t, err)

	fieldErrs, formErrs := env.Distribute([]string{"email"})
	require.Equal(t, map[string]string{"email": "taken"}, fieldErrs)
	require.Equal(t, []string{"ghost: boo", "zebra: stripes"}, formErrs)
}

func TestDistributeGlobalMessage(t *testing.T) {
	env, err := submit.ParseEnvelope([]byte(`{"errorMessages":"nope"}`))
	require.NoError(t, err)

	fieldErrs, formErrs := env.Distribute([]string{"email"})
	require.Nil(t, fieldErrs)
	require.Equal(t, []string{"nope"}, formErrs)
}
