// Package sanitizer cleans free-form visitor input before it is placed into
// messages, file names or log lines.
//
// Functions can be called directly or applied through struct tags:
//
//	type Compose struct {
//		Name  string `sanitize:"name"`
//		Email string `sanitize:"trim,single_line"`
//	}
//
//	if err := sanitizer.SanitizeStruct(&c); err != nil {
//		return err
//	}
//
// Tags list sanitizer names separated by commas and run left to right.
// "max:N" truncates to N runes. Unknown names are reported as errors.
package sanitizer
