package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID    uuid.UUID `validate:"uuid_required"`
	Name  string    `validate:"required"`
	Qty   int       `validate:"gt=0"`
	Email string    `validate:"omitempty,email"`
}

func TestValidateStruct_Valid(t *testing.T) {
	s := sample{ID: uuid.New(), Name: "x", Qty: 1}
	assert.Empty(t, ValidateStruct(&s))
	assert.Equal(t, "", Summary(&s))
}

func TestValidateStruct_Failures(t *testing.T) {
	s := sample{Qty: 0, Email: "not-an-email"}

	errs := ValidateStruct(&s)
	require.Len(t, errs, 4)

	tags := map[string]string{}
	for _, e := range errs {
		tags[e.FailedField] = e.Tag
	}
	assert.Equal(t, "uuid_required", tags["sample.ID"])
	assert.Equal(t, "required", tags["sample.Name"])
	assert.Equal(t, "gt", tags["sample.Qty"])
	assert.Equal(t, "email", tags["sample.Email"])
	assert.Contains(t, Summary(&s), "field 'sample.Qty' failed on tag 'gt'")
}
