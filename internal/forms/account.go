package forms

import (
	"errors"
	"strings"

	"github.com/five82/plusultra/internal/api"
)

// ErrNoChanges is returned by ProfileForm.Changes when nothing was edited.
var ErrNoChanges = errors.New("no profile changes")

// LoginForm collects login credentials.
type LoginForm struct {
	Email    string `label:"Correo" validate:"required,email"`
	Password string `label:"Contraseña" validate:"required"`
}

// Credentials validates the form and returns the request body.
func (f LoginForm) Credentials() (api.Credentials, error) {
	f.Email = strings.TrimSpace(f.Email)
	if err := check(f); err != nil {
		return api.Credentials{}, err
	}
	return api.Credentials{Email: f.Email, Password: f.Password}, nil
}

// RegisterForm collects a new account. The confirmation must match the
// password before anything is sent.
type RegisterForm struct {
	Nickname string `label:"Nickname" validate:"required"`
	Email    string `label:"Correo" validate:"required,email"`
	Password string `label:"Contraseña" validate:"required"`
	Confirm  string `label:"Confirmación" validate:"required,eqfield=Password"`
}

// Registration validates the form and returns the request body.
func (f RegisterForm) Registration() (api.Registration, error) {
	f.Nickname = strings.TrimSpace(f.Nickname)
	f.Email = strings.TrimSpace(f.Email)
	if err := check(f); err != nil {
		return api.Registration{}, err
	}
	return api.Registration{Email: f.Email, Password: f.Password, Nickname: f.Nickname}, nil
}

// ProfileForm edits the public profile fields of the signed-in user.
type ProfileForm struct {
	Nickname      string `label:"Nickname" validate:"required"`
	Phrase        string `label:"Frase" validate:"max=140"`
	ProfilePicURL string `label:"URL del avatar" validate:"omitempty,url"`
}

// NewProfileForm seeds the form with the user's current profile.
func NewProfileForm(u api.User) ProfileForm {
	return ProfileForm{Nickname: u.Nickname, Phrase: u.Phrase, ProfilePicURL: u.ProfilePicURL}
}

// Changes validates the form and returns only the fields that differ from
// current. ErrNoChanges is returned when nothing differs.
func (f ProfileForm) Changes(current api.User) (api.ProfileInput, error) {
	f.Nickname = strings.TrimSpace(f.Nickname)
	f.Phrase = strings.TrimSpace(f.Phrase)
	f.ProfilePicURL = strings.TrimSpace(f.ProfilePicURL)
	if err := check(f); err != nil {
		return api.ProfileInput{}, err
	}

	var in api.ProfileInput
	changed := false
	if f.Nickname != current.Nickname {
		in.Nickname = &f.Nickname
		changed = true
	}
	if f.Phrase != current.Phrase {
		in.Phrase = &f.Phrase
		changed = true
	}
	if f.ProfilePicURL != current.ProfilePicURL {
		in.ProfilePicURL = &f.ProfilePicURL
		changed = true
	}
	if !changed {
		return api.ProfileInput{}, ErrNoChanges
	}
	return in, nil
}

// FriendForm names a user to add as a friend.
type FriendForm struct {
	Nickname string `label:"Nickname" validate:"required"`
}

// Target validates the form and returns the trimmed nickname.
func (f FriendForm) Target() (string, error) {
	f.Nickname = strings.TrimSpace(f.Nickname)
	if err := check(f); err != nil {
		return "", err
	}
	return f.Nickname, nil
}
