// File path: internal/extract/fields.go
package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Field is one inferred fillable field found in template text.
type Field struct {
	Name     string
	TypeHint string
	Label    string
}

var (
	placeholderPattern  = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_. -]+?)\s*\}\}`)
	labeledBlankPattern = regexp.MustCompile(`([A-Za-z][A-Za-z0-9 /'-]{1,48}?)\s*:?\s*_{3,}`)
)

// InferFields scans extracted template text for fillable fields: explicit
// {{name}} placeholders and labeled underscore blanks ("Full Name: ____").
// Order follows first appearance; duplicate names collapse to the first hit.
func InferFields(text string) []Field {
	var fields []Field
	seen := make(map[string]struct{})

	add := func(name, label string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		fields = append(fields, Field{Name: name, TypeHint: typeHint(name), Label: label})
	}

	for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		add(match[1], "")
	}
	for _, match := range labeledBlankPattern.FindAllStringSubmatch(text, -1) {
		label := strings.TrimSpace(match[1])
		add(camelCase(label), label)
	}
	return fields
}

// typeHint guesses a UI input type from the field name.
func typeHint(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "date") || strings.Contains(lower, "dob"):
		return "date"
	case strings.Contains(lower, "email"):
		return "email"
	case strings.Contains(lower, "phone") || strings.Contains(lower, "fax"):
		return "phone"
	case strings.Contains(lower, "address") || strings.Contains(lower, "city") ||
		strings.Contains(lower, "state") || strings.Contains(lower, "zip"):
		return "address"
	case strings.Contains(lower, "amount") || strings.Contains(lower, "fee") ||
		strings.Contains(lower, "value") || strings.Contains(lower, "sum"):
		return "number"
	default:
		return "text"
	}
}

// camelCase folds a human label like "Full Legal Name" into fullLegalName.
func camelCase(label string) string {
	words := strings.FieldsFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ""
	}
	var builder strings.Builder
	for i, word := range words {
		lower := strings.ToLower(word)
		if i == 0 {
			builder.WriteString(lower)
			continue
		}
		builder.WriteString(strings.ToUpper(lower[:1]))
		builder.WriteString(lower[1:])
	}
	return builder.String()
}
