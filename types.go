package bootship

import (
	"github.com/eringen/bootship/theme"
)

// Roles, from most to least privileged.
const (
	RoleAdministrator = "administrator"
	RoleEditor        = "editor"
	RoleAuthor        = "author"
	RoleContributor   = "contributor"
	RoleSubscriber    = "subscriber"
)

// Roles lists the known roles.
var Roles = []string{RoleAdministrator, RoleEditor, RoleAuthor, RoleContributor, RoleSubscriber}

// User is an account that can sign in to the admin.
type User struct {
	ID           int64
	Login        string
	DisplayName  string
	Role         string
	PasswordHash string
}

// Can reports whether u holds capability on item. It satisfies theme.Actor.
//
//	edit_post     administrators and editors on any item, authors and
//	              contributors on their own
//	edit_posts    everyone but subscribers
//	upload_files  administrators, editors and authors
//	manage_options administrators
func (u User) Can(capability string, item theme.Item) bool {
	switch capability {
	case "edit_post", "delete_post":
		switch u.Role {
		case RoleAdministrator, RoleEditor:
			return true
		case RoleAuthor, RoleContributor:
			return item.ID == 0 || item.Author.ID == u.ID
		}
	case "edit_posts":
		return u.Role != RoleSubscriber && u.Role != ""
	case "publish_posts", "upload_files":
		return u.Role == RoleAdministrator || u.Role == RoleEditor || u.Role == RoleAuthor
	case "manage_options":
		return u.Role == RoleAdministrator
	}
	return false
}

// Author returns the public view of u.
func (u User) Author() theme.Author {
	return theme.Author{ID: u.ID, Login: u.Login, DisplayName: u.DisplayName}
}

func validRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
