package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullable_TresEstados(t *testing.T) {
	var absent, null, value UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	require.NoError(t, json.Unmarshal([]byte(`{"description":null}`), &null))
	require.NoError(t, json.Unmarshal([]byte(`{"description":"hola"}`), &value))

	assert.False(t, absent.Description.Set)
	assert.True(t, absent.Empty())

	assert.True(t, null.Description.Set)
	assert.Nil(t, null.Description.Value)
	assert.False(t, null.Empty())

	require.NotNil(t, value.Description.Value)
	assert.Equal(t, "hola", *value.Description.Value)
}

func TestDate_Formatos(t *testing.T) {
	var in CreateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","dueDate":"2026-03-15"}`), &in))
	require.NotNil(t, in.DueDate)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), in.DueDate.Time)

	in = CreateTaskRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":"2026-03-15T10:30:00Z"}`), &in))
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), in.DueDate.Time)

	out, err := json.Marshal(in.DueDate)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-15"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"dueDate":"15/03/2026"}`), &in))
}
