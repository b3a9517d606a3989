package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
)

type params struct {
	Workers int `validate:"gte=0,lte=10"`
}

type validatorSuite struct {
	suite.Suite
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(validatorSuite))
}

func (s *validatorSuite) TestStruct() {
	cases := []struct {
		Desc    string
		Workers int
		Valid   bool
	}{
		{"zero workers", 0, true},
		{"in range", 10, true},
		{"negative", -1, false},
		{"too many", 11, false},
	}
	for _, c := range cases {
		err := Struct(params{Workers: c.Workers})
		if c.Valid {
			s.NoError(err, c.Desc)
		} else {
			s.Error(err, c.Desc)
		}
	}
}

func (s *validatorSuite) TestCustomValidator() {
	v := NewCustomValidator(validator.New())
	s.NoError(v.Validate(params{Workers: 3}))
	s.Error(v.Validate(params{Workers: -3}))
}

func (s *validatorSuite) TestDefaultIsShared() {
	s.Same(Default(), Default())
}
