package session

import (
	"regexp"
	"strings"
)

// Client-side form checks, run before any network call. They mirror the
// portal's rules: required fields, e-mail shape, minimum password length.

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

// Valid reports whether the form passed every check.
func (fe FieldErrors) Valid() bool { return len(fe) == 0 }

// ValidateLogin checks the login form.
func ValidateLogin(email, password string) FieldErrors {
	fe := FieldErrors{}
	checkEmail(fe, email)
	checkPassword(fe, password)
	return fe
}

// ValidateRegister checks the registration form.
func ValidateRegister(name, email, password string) FieldErrors {
	fe := FieldErrors{}
	if strings.TrimSpace(name) == "" {
		fe["name"] = "Nome é obrigatório"
	}
	checkEmail(fe, email)
	checkPassword(fe, password)
	return fe
}

func checkEmail(fe FieldErrors, email string) {
	switch {
	case email == "":
		fe["email"] = "E-mail é obrigatório"
	case !emailRe.MatchString(email):
		fe["email"] = "E-mail inválido"
	}
}

func checkPassword(fe FieldErrors, password string) {
	switch {
	case password == "":
		fe["password"] = "Senha é obrigatória"
	case len(password) < MinPasswordLen:
		fe["password"] = "A senha deve ter pelo menos 6 caracteres"
	}
}
