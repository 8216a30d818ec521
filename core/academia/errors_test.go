package academia_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/secundaria/core/academia"
)

func TestKindOf(t *testing.T) {
	notFound := &academia.Error{Kind: academia.KindNotFound, Code: academia.CodeExamNotFound, Msg: "examen 3 not found"}
	blocked := &academia.Error{Kind: academia.KindDeletionBlocked, Code: academia.CodeDeletionBlocked, Msg: "curso 1 cannot be deleted", Reasons: []string{"a", "b"}}

	tests := []struct {
		name     string
		err      error
		wantKind academia.Kind
		wantCode string
	}{
		{name: "nil", err: nil, wantKind: academia.KindUnknown, wantCode: academia.CodeStorageFailure},
		{name: "plain", err: errors.New("boom"), wantKind: academia.KindUnknown, wantCode: academia.CodeStorageFailure},
		{name: "engine", err: notFound, wantKind: academia.KindNotFound, wantCode: academia.CodeExamNotFound},
		{name: "wrapped", err: errors.Wrap(blocked, "deleting"), wantKind: academia.KindDeletionBlocked, wantCode: academia.CodeDeletionBlocked},
		{name: "list", err: academia.Errors{notFound, blocked}, wantKind: academia.KindNotFound, wantCode: academia.CodeExamNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, academia.KindOf(tt.err))
			assert.Equal(t, tt.wantCode, academia.CodeOf(tt.err))
			assert.True(t, academia.IsKind(tt.err, tt.wantKind))
		})
	}

	assert.Equal(t, "curso 1 cannot be deleted: a, b", blocked.Error())
	assert.Equal(t, "examen 3 not found; curso 1 cannot be deleted: a, b", academia.Errors{notFound, blocked}.Error())
	assert.Equal(t, "DeletionBlocked", academia.KindDeletionBlocked.String())

	cause := errors.New("connection refused")
	storage := &academia.Error{Kind: academia.KindStorageFailure, Code: academia.CodeStorageFailure, Msg: "listing cursos", Err: cause}
	assert.Equal(t, "listing cursos: connection refused", storage.Error())
	assert.True(t, errors.Is(storage, cause))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2025-10-15", want: "2025-10-15"},
		{in: " 2025-03-01 ", want: "2025-03-01"},
		{in: "2025-03-01T23:30:00-03:00", want: "2025-03-02"},
		{in: "2025-03-01T10:00:00Z", want: "2025-03-01"},
		{in: "15/10/2025", wantErr: true},
		{in: "2025-02-30", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := academia.ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
			assert.Equal(t, time.UTC, d.Location())
		})
	}
}

func TestDate_JSON(t *testing.T) {
	var body struct {
		Fecha *academia.Date `json:"fecha"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"fecha": "2025-07-09"}`), &body))
	require.NotNil(t, body.Fecha)
	assert.Equal(t, academia.NewDate(2025, time.July, 9), *body.Fecha)

	b, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fecha": "2025-07-09"}`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`{"fecha": "julio"}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"fecha": 20250709}`), &body))

	var d academia.Date
	require.NoError(t, d.UnmarshalParam("2025-01-31"))
	assert.Equal(t, "2025-01-31", d.String())
}

func TestNullableID_JSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    academia.NullableID
		wantErr bool
	}{
		{name: "absent", body: `{}`, want: academia.NullableID{}},
		{name: "null", body: `{"cursoId": null}`, want: academia.ClearID()},
		{name: "value", body: `{"cursoId": 7}`, want: academia.SetID(7)},
		{name: "wrong type", body: `{"cursoId": "siete"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var up academia.UpdatePersona
			err := json.Unmarshal([]byte(tt.body), &up)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, up.CursoID)
		})
	}

	b, err := json.Marshal(academia.SetID(7))
	require.NoError(t, err)
	assert.Equal(t, "7", string(b))
	b, err = json.Marshal(academia.ClearID())
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}
