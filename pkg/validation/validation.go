package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/hilamalka1/onboard-api/internal/models"
)

// Custom validation tags.
const (
	PersonNameTag = "personname"
	StudentIDTag  = "studentid"
	EmailTag      = "email_shape"
	CourseCodeTag = "coursecode"
	DegreeTag     = "degree"
	SemesterTag   = "semester"
	AudienceTag   = "audience"
	ClockTag      = "clock"
)

var (
	personNamePattern = regexp.MustCompile(`^[A-Za-z\x{0590}-\x{05FF}\s]+$`)
	studentIDPattern  = regexp.MustCompile(`^[0-9]{9}$`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	courseCodePattern = regexp.MustCompile(`^[A-Za-z0-9-]{2,20}$`)
	clockPattern      = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

var messages = map[string]string{
	PersonNameTag: "must contain only letters and be at least 2 characters",
	StudentIDTag:  "must be exactly 9 digits",
	EmailTag:      "must be a valid email address",
	CourseCodeTag: "must be 2-20 letters, digits or dashes",
	DegreeTag:     "must be a known degree program",
	SemesterTag:   "must be Semester A, Semester B or Summer",
	AudienceTag:   "must be one of all, degree, course, students",
	ClockTag:      "must be a time in HH:MM format",
}

// Validator wraps go-playground/validator with English messages keyed by JSON field name.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New builds a Validator with every custom tag registered.
func New() *Validator {
	validate := validator.New()

	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(PersonNameTag, personName)
	_ = validate.RegisterValidation(StudentIDTag, matches(studentIDPattern))
	_ = validate.RegisterValidation(EmailTag, matches(emailPattern))
	_ = validate.RegisterValidation(CourseCodeTag, matches(courseCodePattern))
	_ = validate.RegisterValidation(ClockTag, matches(clockPattern))
	_ = validate.RegisterValidation(DegreeTag, func(fl validator.FieldLevel) bool {
		return models.IsDegreeProgram(fl.Field().String())
	})
	_ = validate.RegisterValidation(SemesterTag, func(fl validator.FieldLevel) bool {
		return models.IsSemester(fl.Field().String())
	})
	_ = validate.RegisterValidation(AudienceTag, func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case models.AudienceAll, models.AudienceDegree, models.AudienceCourse, models.AudienceStudents:
			return true
		}
		return false
	})

	for tag := range messages {
		_ = validate.RegisterTranslation(tag, translator,
			func(ut.Translator) error { return nil },
			func(_ ut.Translator, fe validator.FieldError) string { return messages[fe.Tag()] },
		)
	}

	return &Validator{validate: validate, translator: translator}
}

// Struct validates s and returns a map of JSON field name to message, or nil when valid.
func (v *Validator) Struct(s interface{}) map[string]string {
	return FieldErrors(v.validate.Struct(s), v.translator)
}

// FieldErrors converts a validator error into per-field messages. Every failing field is reported.
func FieldErrors(err error, translator ut.Translator) map[string]string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fieldPath(fe)
		if _, exists := out[key]; exists {
			continue
		}
		msg := ""
		if translator != nil {
			msg = fe.Translate(translator)
		}
		if msg == "" {
			msg = "is invalid"
		}
		out[key] = msg
	}
	return out
}

// fieldPath strips the root struct name, e.g. "CreateStudentRequest.email" -> "email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func matches(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}
}

func personName(fl validator.FieldLevel) bool {
	return IsPersonName(fl.Field().String())
}

// IsPersonName reports whether s is at least two Latin or Hebrew letters, spaces allowed inside.
func IsPersonName(s string) bool {
	trimmed := strings.TrimSpace(s)
	return utf8.RuneCountInString(trimmed) >= 2 && personNamePattern.MatchString(trimmed)
}

// IsStudentID reports whether s is exactly nine digits.
func IsStudentID(s string) bool {
	return studentIDPattern.MatchString(s)
}

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}
