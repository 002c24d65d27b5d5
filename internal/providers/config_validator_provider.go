package providers

import (
	"fmt"
	"steamledger/internal/structures"
	"time"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	if _, err := time.Parse("15:04", cv.conf.Schedule.At); err != nil {
		return fmt.Errorf("schedule.at must be HH:MM: %w", err)
	}
	return nil
}
