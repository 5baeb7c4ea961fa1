package theme

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// ContractorMetaKey stores a project's contractor. The leading underscore
// hides it from generic custom field screens.
const ContractorMetaKey = "_project_contractor_name"

// ContractorField is the form field posted by the project meta box.
const ContractorField = "project_contractor_name"

// Labels are the admin strings of a content type.
type Labels struct {
	Name            string
	SingularName    string
	MenuName        string
	NameAdminBar    string
	AddNew          string
	AddNewItem      string
	NewItem         string
	EditItem        string
	ViewItem        string
	AllItems        string
	SearchItems     string
	ParentItemColon string
	NotFound        string
	NotFoundInTrash string
}

// PostType describes a content type the theme adds to the host.
type PostType struct {
	Name              string
	Labels            Labels
	Description       string
	Public            bool
	PubliclyQueryable bool
	ShowUI            bool
	ShowInMenu        bool
	QueryVar          bool
	RewriteSlug       string
	CapabilityType    string
	HasArchive        bool
	Hierarchical      bool
	Supports          []string
}

// SupportsFeature reports whether the type's edit screen has feature.
func (p PostType) SupportsFeature(feature string) bool {
	for _, f := range p.Supports {
		if f == feature {
			return true
		}
	}
	return false
}

var projectPostType = PostType{
	Name: TypeProject,
	Labels: Labels{
		Name:            "Projects",
		SingularName:    "Project",
		MenuName:        "Projects",
		NameAdminBar:    "Project",
		AddNew:          "Add New",
		AddNewItem:      "Add New Project",
		NewItem:         "New Project",
		EditItem:        "Edit Project",
		ViewItem:        "View Project",
		AllItems:        "All Projects",
		SearchItems:     "Search Projects",
		ParentItemColon: "Parent Projects:",
		NotFound:        "No projects found.",
		NotFoundInTrash: "No projects found in Trash.",
	},
	Description:       "Description.",
	Public:            true,
	PubliclyQueryable: true,
	ShowUI:            true,
	ShowInMenu:        true,
	QueryVar:          true,
	RewriteSlug:       "project",
	CapabilityType:    "post",
	HasArchive:        true,
	Hierarchical:      false,
	Supports:          []string{"title", "editor", "author", "thumbnail", "excerpt", "comments"},
}

var postTypes = map[string]PostType{
	TypeProject: projectPostType,
}

// PostType returns a content type registered by the theme.
func (t *Theme) PostType(name string) (PostType, bool) {
	for _, p := range t.supports.PostTypes {
		if p.Name == name {
			return p, true
		}
	}
	return PostType{}, false
}

// MetaBox is an admin panel on an item edit screen.
type MetaBox struct {
	ID       string
	Title    string
	Screen   string
	Context  string
	Priority string
	Render   func(item Item) templ.Component
}

// MetaBoxes returns the panels for the edit screen of postType.
func (t *Theme) MetaBoxes(postType string) []MetaBox {
	if postType != TypeProject {
		return nil
	}
	return []MetaBox{{
		ID:       "project_details",
		Title:    t.T("Contactor"),
		Screen:   TypeProject,
		Context:  "normal",
		Priority: "high",
		Render:   t.projectDetails,
	}}
}

func (t *Theme) projectDetails(item Item) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		value := templ.EscapeString(item.Meta[ContractorMetaKey])
		_, err := io.WriteString(w, `<p>`+
			`<label for="`+ContractorField+`">`+templ.EscapeString(t.T("Name:"))+`</label> `+
			`<input id="`+ContractorField+`" name="`+ContractorField+`" type="text" style="width:99%;" value="`+value+`" />`+
			`</p>`)
		return err
	})
}

// SaveRequest is one item save as seen by the save hooks.
type SaveRequest struct {
	Item     Item
	Actor    Actor
	Form     url.Values
	Autosave bool
	Async    bool
}

// SaveHook runs after the host stored an item. It returns the item id.
type SaveHook func(w MetaWriter, req SaveRequest) (int64, error)

// SaveHooks returns the theme's save hooks in run order.
func (t *Theme) SaveHooks() []SaveHook {
	return []SaveHook{SaveProjectMeta}
}

// SaveProjectMeta persists the contractor field of a project. Background
// saves and users without edit rights on the item never write.
func SaveProjectMeta(w MetaWriter, req SaveRequest) (int64, error) {
	id := req.Item.ID
	if req.Autosave || req.Async {
		return id, nil
	}
	if req.Actor == nil || !req.Actor.Can("edit_post", req.Item) {
		return id, nil
	}
	if req.Item.Type != TypeProject {
		return id, nil
	}
	vals, ok := req.Form[ContractorField]
	if !ok || len(vals) == 0 {
		return id, nil
	}
	if err := w.UpdateMeta(id, ContractorMetaKey, vals[0]); err != nil {
		return id, err
	}
	return id, nil
}
