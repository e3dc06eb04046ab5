// Package validate checks requests coming from the outside before they reach the store.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MaxAttachmentSize is the largest accepted attachment in bytes.
const MaxAttachmentSize = 5 << 20

// AttachmentTypes lists accepted MIME types of attachments.
var AttachmentTypes = []string{
	"application/msword", "application/pdf", "application/x-pdf", "application/x-download",
	"application/rtf", "image/gif", "image/jpeg", "image/png", "image/tiff", "image/rgb",
	"application/zip", "application/x-gzip",
}

var loginRegex = regexp.MustCompile(`^[A-Za-z0-9.\-_@]+$`)

// SignUp is a request to register a new user.
type SignUp struct {
	Login string `validate:"required,min=3,max=40,login"`
	Name  string `validate:"max=100,safename"`
	Email string `validate:"required,min=6,max=100,email"`
	// Honeypot field, must be left blank by humans.
	Something string `validate:"max=0"`
}

// PostMessage is a request to post a message into a conversation.
type PostMessage struct {
	User         string `validate:"required"`
	Conversation string `validate:"required"`
	Body         string `validate:"required"`
	// Attachment metadata, optional.
	AttachmentType string `validate:"omitempty,attachment_type"`
	AttachmentSize int64  `validate:"min=0,max=5242880"`
	// Honeypot field, must be left blank by humans.
	Something string `validate:"max=0"`
}

// Follow is a request to follow a conversation, optionally with an invite token.
type Follow struct {
	User         string `validate:"required"`
	Conversation string `validate:"required"`
	Token        string `validate:"omitempty,max=64"`
}

// Tag is a request to tag a conversation.
type Tag struct {
	Conversation string   `validate:"required"`
	Tags         []string `validate:"required,min=1,dive,required,max=64"`
}

var v *validator.Validate

// Struct validates one of the request structs of the package.
func Struct(req interface{}) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return describe(verrs)
	}
	return err
}

// describe converts validation errors into a single human-readable error.
func describe(verrs validator.ValidationErrors) error {
	var msgs []string
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "login":
			msg = "use only letters, numbers, and .-_@ please"
		case "safename":
			msg = "avoid non-printing characters and \\<>&/ please"
		case "email":
			msg = "should look like an email address"
		case "attachment_type":
			msg = "unsupported attachment type"
		case "max":
			if fe.Field() == "Something" {
				msg = "must be blank"
			} else {
				msg = "is too long"
			}
		case "min":
			msg = "is too short"
		default:
			msg = "is invalid"
		}
		msgs = append(msgs, strings.ToLower(fe.Field())+" "+msg)
	}
	return errors.New(strings.Join(msgs, "; "))
}

func validLogin(fl validator.FieldLevel) bool {
	return loginRegex.MatchString(fl.Field().String())
}

func validName(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if !unicode.IsPrint(r) || strings.ContainsRune(`\<>&/`, r) {
			return false
		}
	}
	return true
}

func validAttachmentType(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, at := range AttachmentTypes {
		if at == val {
			return true
		}
	}
	return false
}

func init() {
	v = validator.New()
	v.RegisterValidation("login", validLogin)
	v.RegisterValidation("safename", validName)
	v.RegisterValidation("attachment_type", validAttachmentType)
}
