package strings

import (
	"github.com/pkg/errors"
	"github.com/sethvargo/go-password/password"
)

const (
	DefaultPasswordLength = 32

	maxDigits = 10
)

// GeneratePassword returns a random password of letters and digits.
// Symbols are left out, the result is passed on command lines and in URLs.
func GeneratePassword(length int) (string, error) {
	passwordGenerator, err := password.NewGenerator(&password.GeneratorInput{
		Symbols: "",
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to create password generator")
	}

	digits := min(length/4, maxDigits) //nolint:mnd

	pass, err := passwordGenerator.Generate(length, digits, 0, false, false)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate password")
	}

	return pass, nil
}
