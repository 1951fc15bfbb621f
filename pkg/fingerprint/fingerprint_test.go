package fingerprint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/devicetrack/pkg/fingerprint"
)

func strPtr(s string) *string { return &s }

func baseComponents() fingerprint.Components {
	return fingerprint.Components{
		UserAgent:      strPtr("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"),
		OS:             "macOS",
		OSVersion:      strPtr("10.15.7"),
		Browser:        "Safari",
		BrowserVersion: strPtr("17.1"),
		DeviceFamily:   strPtr("Macintosh"),
		IsTouch:        false,
	}
}

func TestGenerate(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		fp1 := fingerprint.Generate(baseComponents())
		fp2 := fingerprint.Generate(baseComponents())

		assert.Equal(t, fp1, fp2)
		assert.Len(t, fp1, 64)
		assert.Regexp(t, "^[a-f0-9]{64}$", fp1)
	})

	t.Run("every component changes the result", func(t *testing.T) {
		base := fingerprint.Generate(baseComponents())

		mutations := map[string]func(c *fingerprint.Components){
			"user agent":      func(c *fingerprint.Components) { c.UserAgent = strPtr("curl/8.0") },
			"os":              func(c *fingerprint.Components) { c.OS = "Windows" },
			"os version":      func(c *fingerprint.Components) { c.OSVersion = strPtr("14.0") },
			"browser":         func(c *fingerprint.Components) { c.Browser = "Chrome" },
			"browser version": func(c *fingerprint.Components) { c.BrowserVersion = strPtr("18.0") },
			"device family":   func(c *fingerprint.Components) { c.DeviceFamily = strPtr("Other") },
			"touch":           func(c *fingerprint.Components) { c.IsTouch = true },
		}

		for name, mutate := range mutations {
			t.Run(name, func(t *testing.T) {
				c := baseComponents()
				mutate(&c)
				assert.NotEqual(t, base, fingerprint.Generate(c))
			})
		}
	})

	t.Run("nil and empty optional components are equivalent", func(t *testing.T) {
		withNil := baseComponents()
		withNil.OSVersion = nil
		withNil.DeviceFamily = nil

		withEmpty := baseComponents()
		withEmpty.OSVersion = strPtr("")
		withEmpty.DeviceFamily = strPtr("")

		assert.Equal(t, fingerprint.Generate(withNil), fingerprint.Generate(withEmpty))
	})

	t.Run("separator inside a component does not shift fields", func(t *testing.T) {
		a := fingerprint.Components{OS: "a|b", Browser: "c"}
		b := fingerprint.Components{OS: "a", Browser: "b|c"}
		assert.NotEqual(t, fingerprint.Generate(a), fingerprint.Generate(b))
	})

	t.Run("zero value", func(t *testing.T) {
		fp := fingerprint.Generate(fingerprint.Components{})
		assert.Len(t, fp, 64)
	})
}

func TestValidate(t *testing.T) {
	c := baseComponents()
	fp := fingerprint.Generate(c)

	assert.True(t, fingerprint.Validate(c, fp))

	c.Browser = "Firefox"
	assert.False(t, fingerprint.Validate(c, fp))
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, fingerprint.GetFingerprintFromContext(ctx))

	ctx = fingerprint.SetFingerprintToContext(ctx, "abc123")
	assert.Equal(t, "abc123", fingerprint.GetFingerprintFromContext(ctx))
}
