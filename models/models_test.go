package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-07", time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)},
		{"2024-01-07T10:30", time.Date(2024, 1, 7, 10, 30, 0, 0, time.UTC)},
		{"2024-01-07T10:30:00Z", time.Date(2024, 1, 7, 10, 30, 0, 0, time.UTC)},
		{"2024-01-07T10:30:00+02:00", time.Date(2024, 1, 7, 8, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(d.Time), "got %v", d.Time)
		})
	}

	_, err := ParseDate("next sunday")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var s struct {
		Date Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-01"}`), &s))
	assert.Equal(t, 2024, s.Date.Year())

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-03-01T00:00:00Z"}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"date":null}`), &s))
	assert.True(t, s.Date.IsZero())

	out, err = json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"date":12}`), &s))
}

func TestDateBSON(t *testing.T) {
	type doc struct {
		Date Date `bson:"date"`
	}
	in := doc{Date: NewDate(time.Date(2024, 5, 5, 9, 0, 0, 0, time.UTC))}
	raw, err := bson.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, bson.TypeDateTime, bson.Raw(raw).Lookup("date").Type)

	var out doc
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.True(t, in.Date.Equal(out.Date.Time))

	raw, err = bson.Marshal(doc{})
	require.NoError(t, err)
	assert.Equal(t, bson.TypeNull, bson.Raw(raw).Lookup("date").Type)
}

func TestValidateSermon(t *testing.T) {
	err := Validate(&Sermon{Title: "Grace", Preacher: "Pastor John"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details, "date is required")

	d, _ := ParseDate("2024-01-07")
	assert.NoError(t, Validate(&Sermon{Title: "Grace", Preacher: "Pastor John", Date: d}))
}

func TestValidateNavbarItems(t *testing.T) {
	err := Validate(&Navbar{Items: []NavbarItem{{ID: "1", Label: "Home"}}})
	require.Error(t, err)
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, []string{"items[0].href is required"}, appErr.Details)
}

func TestValidateCustomTags(t *testing.T) {
	assert.Error(t, Validate(&Page{Slug: "About Us", Title: "About", Content: "x"}))
	assert.NoError(t, Validate(&Page{Slug: "about-us", Title: "About", Content: "x"}))

	assert.Error(t, Validate(&User{Name: "A", Email: "a@example.com", Role: "owner"}))
	assert.NoError(t, Validate(&User{Name: "A", Email: "a@example.com", Role: RolePastor}))
}

func TestErrorKinds(t *testing.T) {
	err := NewNotFoundError("Sermon", "abc")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, "Sermon with ID abc not found", err.Error())

	cause := errors.New("connection reset")
	internal := NewInternalError(cause)
	assert.True(t, errors.Is(internal, cause))
	assert.Equal(t, "Internal server error", internal.Message)

	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}
