package store

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntroValidate(t *testing.T) {
	valid := func() Intro {
		return Intro{
			CandidateID:     "3f1c2f4e-8a7b-4c55-9a61-0c2c9c5d1e11",
			EmployerEmail:   "hiring@acme.io",
			EmployerCompany: "Acme",
		}
	}

	t.Run("fills pending status", func(t *testing.T) {
		intro := valid()
		require.NoError(t, intro.Validate())
		assert.Equal(t, IntroStatusPending, intro.Status)
	})

	t.Run("keeps explicit status", func(t *testing.T) {
		intro := valid()
		intro.Status = "accepted"
		require.NoError(t, intro.Validate())
		assert.Equal(t, "accepted", intro.Status)
	})

	tests := []struct {
		name   string
		mutate func(*Intro)
		field  string
	}{
		{"candidate id not uuid", func(i *Intro) { i.CandidateID = "42" }, "CandidateID"},
		{"missing email", func(i *Intro) { i.EmployerEmail = "" }, "EmployerEmail"},
		{"malformed email", func(i *Intro) { i.EmployerEmail = "acme" }, "EmployerEmail"},
		{"missing company", func(i *Intro) { i.EmployerCompany = "" }, "EmployerCompany"},
		{"company too long", func(i *Intro) { i.EmployerCompany = strings.Repeat("a", 201) }, "EmployerCompany"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intro := valid()
			tt.mutate(&intro)

			err := intro.Validate()
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field())
			assert.Empty(t, intro.Status)
		})
	}
}
