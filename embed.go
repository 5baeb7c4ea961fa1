package bootship

import "embed"

// adminTemplates holds the admin screens: login, dashboard, editor and
// media library.
//
//go:embed admin/*.html
var adminTemplates embed.FS
