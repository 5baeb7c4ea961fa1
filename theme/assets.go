package theme

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// AssetKind separates the style and script handle namespaces.
type AssetKind int

const (
	Style AssetKind = iota
	Script
)

func (k AssetKind) String() string {
	if k == Script {
		return "js"
	}
	return "css"
}

// Asset declares one stylesheet or script.
type Asset struct {
	Kind   AssetKind
	Handle string
	Src    string
	Deps   []string
	Ver    string
	// InFooter moves a script before </body>. Styles always load in <head>.
	InFooter bool
	Media    string
	// Conditional scopes the tag to legacy browsers, e.g. "lt IE 9".
	Conditional string
}

type assetKey struct {
	kind   AssetKind
	handle string
}

// Assets is the per-request declaration list. Registration makes a handle
// known; enqueueing asks for it to be emitted. The first declaration of a
// handle wins and enqueueing twice is a no-op.
type Assets struct {
	registered map[assetKey]Asset
	queue      []assetKey
	queued     map[assetKey]bool
}

// NewAssets returns a list that already knows the host's core handles.
func NewAssets(coreURI string) *Assets {
	a := &Assets{
		registered: make(map[assetKey]Asset),
		queued:     make(map[assetKey]bool),
	}
	coreURI = strings.TrimSuffix(coreURI, "/")
	for _, s := range []Asset{
		{Kind: Script, Handle: "jquery", Src: coreURI + "/jquery.min.js", Ver: "3.7.1"},
		{Kind: Script, Handle: "masonry", Src: coreURI + "/masonry.min.js", Ver: "4.2.2", InFooter: true},
		{Kind: Script, Handle: "jquery-masonry", Src: coreURI + "/jquery.masonry.min.js", Deps: []string{"jquery", "masonry"}, Ver: "3.1.2b", InFooter: true},
		{Kind: Script, Handle: "comment-reply", Src: coreURI + "/comment-reply.min.js", InFooter: true},
		{Kind: Script, Handle: "customize-preview", Src: coreURI + "/customize-preview.min.js", Deps: []string{"jquery"}, InFooter: true},
	} {
		a.Register(s)
	}
	return a
}

// Register makes the asset known without emitting it. It reports false when
// the handle was already taken.
func (a *Assets) Register(asset Asset) bool {
	k := assetKey{asset.Kind, asset.Handle}
	if _, ok := a.registered[k]; ok {
		return false
	}
	if asset.Kind == Style && asset.Media == "" {
		asset.Media = "all"
	}
	a.registered[k] = asset
	return true
}

// Enqueue registers the asset if needed and queues it for output.
func (a *Assets) Enqueue(asset Asset) {
	a.Register(asset)
	a.EnqueueHandle(asset.Kind, asset.Handle)
}

// EnqueueHandle queues an already registered handle.
func (a *Assets) EnqueueHandle(kind AssetKind, handle string) {
	k := assetKey{kind, handle}
	if a.queued[k] {
		return
	}
	a.queued[k] = true
	a.queue = append(a.queue, k)
}

// SetConditional scopes a registered asset to a browser condition.
func (a *Assets) SetConditional(kind AssetKind, handle, cond string) bool {
	k := assetKey{kind, handle}
	asset, ok := a.registered[k]
	if !ok {
		return false
	}
	asset.Conditional = cond
	a.registered[k] = asset
	return true
}

// Enqueued reports whether handle is queued.
func (a *Assets) Enqueued(kind AssetKind, handle string) bool {
	return a.queued[assetKey{kind, handle}]
}

// Queued returns the queued handles of kind in declaration order.
func (a *Assets) Queued(kind AssetKind) []string {
	var out []string
	for _, k := range a.queue {
		if k.kind == kind {
			out = append(out, k.handle)
		}
	}
	return out
}

// Get returns the registered asset for handle.
func (a *Assets) Get(kind AssetKind, handle string) (Asset, bool) {
	asset, ok := a.registered[assetKey{kind, handle}]
	return asset, ok
}

// Resolve orders the queued assets of kind so every dependency is emitted once
// and before its dependents. Assets whose dependencies are unknown or cyclic
// are dropped and reported in skipped.
func (a *Assets) Resolve(kind AssetKind) (ordered []Asset, skipped []string) {
	const (
		visiting = 1
		done     = 2
		failed   = 3
	)
	state := make(map[string]int)
	var visit func(handle string) bool
	visit = func(handle string) bool {
		switch state[handle] {
		case done:
			return true
		case visiting, failed:
			return false
		}
		asset, ok := a.registered[assetKey{kind, handle}]
		if !ok {
			state[handle] = failed
			return false
		}
		state[handle] = visiting
		for _, dep := range asset.Deps {
			if !visit(dep) {
				state[handle] = failed
				skipped = append(skipped, handle)
				return false
			}
		}
		state[handle] = done
		ordered = append(ordered, asset)
		return true
	}
	for _, k := range a.queue {
		if k.kind != kind {
			continue
		}
		if _, ok := a.registered[k]; !ok {
			skipped = append(skipped, k.handle)
			continue
		}
		visit(k.handle)
	}
	return ordered, skipped
}

// Split resolves both kinds and partitions them into the <head> group and the
// footer group. A footer script needed by a head script moves to the head.
func (a *Assets) Split() (head, footer []Asset, skipped []string) {
	styles, s1 := a.Resolve(Style)
	scripts, s2 := a.Resolve(Script)
	skipped = append(s1, s2...)

	inHead := make(map[string]bool)
	var mark func(handle string)
	mark = func(handle string) {
		if inHead[handle] {
			return
		}
		inHead[handle] = true
		if asset, ok := a.registered[assetKey{Script, handle}]; ok {
			for _, dep := range asset.Deps {
				mark(dep)
			}
		}
	}
	for _, s := range scripts {
		if !s.InFooter {
			mark(s.Handle)
		}
	}

	head = append(head, styles...)
	for _, s := range scripts {
		if inHead[s.Handle] {
			head = append(head, s)
		} else {
			footer = append(footer, s)
		}
	}
	return head, footer, skipped
}

// Tag renders the HTML element for one asset.
func (asset Asset) Tag() string {
	src := asset.Src
	if asset.Ver != "" {
		sep := "?"
		if strings.Contains(src, "?") {
			sep = "&"
		}
		src += sep + "ver=" + asset.Ver
	}
	var b strings.Builder
	if asset.Conditional != "" {
		b.WriteString("<!--[if " + asset.Conditional + "]>\n")
	}
	id := templ.EscapeString(asset.Handle + "-" + asset.Kind.String())
	if asset.Kind == Style {
		media := asset.Media
		if media == "" {
			media = "all"
		}
		b.WriteString(`<link rel="stylesheet" id="` + id + `" href="` + templ.EscapeString(src) + `" media="` + templ.EscapeString(media) + `">`)
	} else {
		b.WriteString(`<script src="` + templ.EscapeString(src) + `" id="` + id + `"></script>`)
	}
	if asset.Conditional != "" {
		b.WriteString("\n<![endif]-->")
	}
	return b.String()
}

// AssetTags renders a group of assets, one tag per line.
func AssetTags(assets []Asset) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, asset := range assets {
			if _, err := io.WriteString(w, asset.Tag()+"\n"); err != nil {
				return err
			}
		}
		return nil
	})
}
