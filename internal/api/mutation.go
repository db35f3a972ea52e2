package api

import (
	"encoding/json"
	"fmt"

	"watchlist/internal/services"
	"watchlist/internal/watchlist"
)

// Wire op tags for POST /api/lists/{id}/mutations.
const (
	OpFull   = "full"
	OpAdd    = "add"
	OpRemove = "remove"
	OpUpdate = "update"
	OpRename = "rename"
)

// MutationRequest is the body of POST /api/lists/{id}/mutations.
// BaseVersion is accepted for compatibility with older clients and ignored:
// writes are not conditional.
type MutationRequest struct {
	BaseVersion *int64          `json:"baseVersion,omitempty"`
	Mutation    json.RawMessage `json:"mutation"`
}

// WireMutation is the tagged JSON form of one mutation.
type WireMutation struct {
	Op    string            `json:"op"`
	Items []Item            `json:"items,omitzero"`
	Item  *Item             `json:"item,omitempty"`
	ID    string            `json:"id,omitempty"`
	Patch *PatchItemRequest `json:"patch,omitempty"`
	Name  *string           `json:"name,omitempty"`
}

// DecodeMutation parses a request body into an engine mutation. Undecodable
// JSON is reported as services.ErrMalformed; an unknown op or a missing
// required field as services.ErrValidation.
func DecodeMutation(body []byte) (watchlist.Mutation, *int64, error) {
	var req MutationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, nil, services.Wrap(services.ErrMalformed, "api", "decode mutation", "", err)
	}
	if len(req.Mutation) == 0 || string(req.Mutation) == "null" {
		return nil, nil, services.Wrap(services.ErrValidation, "api", "decode mutation", "mutation is required", nil)
	}
	var wire WireMutation
	if err := json.Unmarshal(req.Mutation, &wire); err != nil {
		return nil, nil, services.Wrap(services.ErrMalformed, "api", "decode mutation", "", err)
	}
	m, err := wire.Mutation()
	if err != nil {
		return nil, nil, err
	}
	return m, req.BaseVersion, nil
}

// Mutation converts the wire form into an engine mutation.
func (w WireMutation) Mutation() (watchlist.Mutation, error) {
	invalid := func(msg string) error {
		return services.Wrap(services.ErrValidation, "api", "decode mutation", msg, nil)
	}
	switch w.Op {
	case OpFull:
		if w.Items == nil {
			return nil, invalid("full requires items")
		}
		return watchlist.FullReplace{Items: ToItems(w.Items)}, nil
	case OpAdd:
		if w.Item == nil {
			return nil, invalid("add requires item")
		}
		return watchlist.Add{Item: ToItem(*w.Item)}, nil
	case OpRemove:
		if w.ID == "" {
			return nil, invalid("remove requires id")
		}
		return watchlist.Remove{ID: w.ID}, nil
	case OpUpdate:
		if w.ID == "" || w.Patch == nil {
			return nil, invalid("update requires id and patch")
		}
		return watchlist.Update{ID: w.ID, Patch: w.Patch.Patch()}, nil
	case OpRename:
		if w.Name == nil {
			return nil, invalid("rename requires name")
		}
		return watchlist.Rename{Name: *w.Name}, nil
	default:
		return nil, invalid(fmt.Sprintf("unknown op %q", w.Op))
	}
}

// EncodeMutation builds the request body for m.
func EncodeMutation(m watchlist.Mutation) ([]byte, error) {
	wire, err := ToWire(m)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}
	return json.Marshal(MutationRequest{Mutation: raw})
}

// ToWire converts an engine mutation into its wire form. Password changes
// have no wire form; they go through PUT /api/lists/{id}/password.
func ToWire(m watchlist.Mutation) (WireMutation, error) {
	switch mut := m.(type) {
	case watchlist.FullReplace:
		items := make([]Item, 0, len(mut.Items))
		for _, item := range mut.Items {
			items = append(items, FromItem(item))
		}
		return WireMutation{Op: OpFull, Items: items}, nil
	case watchlist.Add:
		item := FromItem(mut.Item)
		return WireMutation{Op: OpAdd, Item: &item}, nil
	case watchlist.Remove:
		return WireMutation{Op: OpRemove, ID: mut.ID}, nil
	case watchlist.Update:
		patch := PatchRequest(mut.Patch)
		return WireMutation{Op: OpUpdate, ID: mut.ID, Patch: &patch}, nil
	case watchlist.Rename:
		name := mut.Name
		return WireMutation{Op: OpRename, Name: &name}, nil
	default:
		return WireMutation{}, services.Wrap(services.ErrValidation, "api", "encode mutation",
			fmt.Sprintf("%T has no wire form", m), nil)
	}
}
