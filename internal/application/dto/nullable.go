package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Nullable distingue campo ausente (Set=false), null explícito (Set=true, Value=nil)
// y valor (Set=true, Value!=nil) en cuerpos de actualización parcial.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON solo se invoca cuando la clave está presente, incluso con null.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// dateLayout formato de fecha de vencimiento.
const dateLayout = "2006-01-02"

// Date fecha sin hora. Acepta "2006-01-02" o RFC 3339 al decodificar.
type Date struct {
	time.Time
}

// UnmarshalJSON parsea la fecha.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("fecha inválida %q: use AAAA-MM-DD", s)
	}
	y, m, day := t.Date()
	d.Time = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return nil
}

// MarshalJSON escribe AAAA-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}

// DatePtr convierte a *Date (nil se conserva).
func DatePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	return &Date{Time: *t}
}
