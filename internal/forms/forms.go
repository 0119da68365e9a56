// Package forms validates the public submission surfaces: contact,
// login and search. Failed submissions are stashed in a read-once
// session slot so the originating page can re-render with the values
// preserved after a redirect.
package forms

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-ninecms/internal/sanitize"
)

// Session slot names for failed-submission payloads.
const (
	SlotContact = "contact_form_post"
	SlotLogin   = "login_form_post"
)

// SubjectPrefix is prepended to outgoing contact mail subjects.
const SubjectPrefix = "[Website Feedback] "

var (
	ErrSenderNameRequired  = errors.New("forms: sender name is required")
	ErrSenderEmailRequired = errors.New("forms: sender email is required")
	ErrSenderEmailInvalid  = errors.New("forms: sender email is invalid")
	ErrSubjectRequired     = errors.New("forms: subject is required")
	ErrMessageRequired     = errors.New("forms: message is required")
	ErrUsernameRequired    = errors.New("forms: username is required")
	ErrPasswordRequired    = errors.New("forms: password is required")
	ErrQueryRequired       = errors.New("forms: search query is required")
)

// ContactForm is a public feedback submission. Redirect carries the
// originating path for post-submit navigation.
type ContactForm struct {
	SenderName  string `json:"sender_name"`
	SenderEmail string `json:"sender_email"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	Redirect    string `json:"redirect"`
}

// Clean strips markup from every field and prefixes the subject.
func (f *ContactForm) Clean() {
	f.SenderName = strings.TrimSpace(sanitize.StripTags(f.SenderName))
	f.SenderEmail = strings.TrimSpace(sanitize.StripTags(f.SenderEmail))
	f.Message = strings.TrimSpace(sanitize.StripTags(f.Message))
	f.Redirect = strings.TrimSpace(sanitize.StripTags(f.Redirect))
	subject := strings.TrimSpace(sanitize.StripTags(f.Subject))
	if subject != "" && !strings.HasPrefix(subject, SubjectPrefix) {
		subject = SubjectPrefix + subject
	}
	f.Subject = subject
}

func (f ContactForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.SenderName, validation.Required.Error(ErrSenderNameRequired.Error()), validation.Length(0, 100)),
		validation.Field(&f.SenderEmail, validation.Required.Error(ErrSenderEmailRequired.Error()), is.Email.Error(ErrSenderEmailInvalid.Error()), validation.Length(0, 100)),
		validation.Field(&f.Subject, validation.Required.Error(ErrSubjectRequired.Error()), validation.Length(0, 255)),
		validation.Field(&f.Message, validation.Required.Error(ErrMessageRequired.Error())),
	)
}

// LoginForm is a public credential submission. The password never goes
// through Clean so it is preserved byte for byte.
type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Redirect string `json:"redirect"`
}

// Clean strips markup from the username and redirect fields.
func (f *LoginForm) Clean() {
	f.Username = strings.TrimSpace(sanitize.StripTags(f.Username))
	f.Redirect = strings.TrimSpace(sanitize.StripTags(f.Redirect))
}

func (f LoginForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Username, validation.Required.Error(ErrUsernameRequired.Error()), validation.Length(0, 255)),
		validation.Field(&f.Password, validation.Required.Error(ErrPasswordRequired.Error()), validation.Length(0, 255)),
	)
}

// SearchForm is the query-string backed search submission.
type SearchForm struct {
	Query string `json:"q"`
}

// Clean strips markup from the query.
func (f *SearchForm) Clean() {
	f.Query = strings.TrimSpace(sanitize.StripTags(f.Query))
}

func (f SearchForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Query, validation.Required.Error(ErrQueryRequired.Error()), validation.Length(0, 255)),
	)
}
