package watchlist

// Kind names a mutation variant on the wire and in logs.
type Kind string

const (
	KindFullReplace     Kind = "full"
	KindAdd             Kind = "add"
	KindRemove          Kind = "remove"
	KindUpdate          Kind = "update"
	KindRename          Kind = "rename"
	KindSetPasswordHash Kind = "set_password_hash"
)

// Mutation is a closed set of changes the engine knows how to apply. Only the
// value types declared in this file implement it.
type Mutation interface {
	Kind() Kind
	isMutation()
}

// FullReplace substitutes the entire item sequence. It performs no existence
// checks, so a caller holding a stale snapshot overwrites concurrent changes.
type FullReplace struct {
	Items []Item
}

// Add inserts an item at the front of the list unless its id is already present.
type Add struct {
	Item Item
}

// Remove drops the item with the given id.
type Remove struct {
	ID string
}

// Update merges Patch into the item with the given id.
type Update struct {
	ID    string
	Patch Patch
}

// Rename changes the list name.
type Rename struct {
	Name string
}

// SetPasswordHash replaces the stored credential hash; "" removes protection.
type SetPasswordHash struct {
	Hash string
}

func (FullReplace) Kind() Kind     { return KindFullReplace }
func (Add) Kind() Kind             { return KindAdd }
func (Remove) Kind() Kind          { return KindRemove }
func (Update) Kind() Kind          { return KindUpdate }
func (Rename) Kind() Kind          { return KindRename }
func (SetPasswordHash) Kind() Kind { return KindSetPasswordHash }

func (FullReplace) isMutation()     {}
func (Add) isMutation()             {}
func (Remove) isMutation()          {}
func (Update) isMutation()          {}
func (Rename) isMutation()          {}
func (SetPasswordHash) isMutation() {}
