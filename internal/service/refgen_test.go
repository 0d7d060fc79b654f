package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferenceGeneratorFormats(t *testing.T) {
	gen := NewReferenceGenerator()

	projectPattern := regexp.MustCompile(`^ADFD-\d{6}-\d{3}$`)
	refPattern := regexp.MustCompile(`^REF-\d{4}-\d{4}$`)

	for i := 0; i < 10; i++ {
		assert.Regexp(t, projectPattern, gen.ProjectNumber())
		assert.Regexp(t, refPattern, gen.RefNumber())
	}
}
