package listsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"watchlist/internal/docstore"
	"watchlist/internal/logging"
	"watchlist/internal/services"
	"watchlist/internal/textutil"
	"watchlist/internal/watchlist"
)

// maxPasswordLength bounds the secret accepted by CreateList and SetPassword.
const maxPasswordLength = 128

// NewItem carries the caller-supplied fields of an item to add. ID is
// optional; clients that apply the add optimistically supply their own.
type NewItem struct {
	ID             string
	Title          string
	AddedBy        string
	Poster         string
	RuntimeMinutes int
	ReleaseDate    string
	Rating         int
}

// Service executes list operations against a document store.
type Service struct {
	store     docstore.Store
	index     docstore.Index
	hasher    Hasher
	now       func() time.Time
	newListID func() string
	newItemID func() string
	logger    *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithHasher replaces the credential hasher.
func WithHasher(h Hasher) Option {
	return func(s *Service) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerators overrides list and item id generation.
func WithIDGenerators(listID, itemID func() string) Option {
	return func(s *Service) {
		if listID != nil {
			s.newListID = listID
		}
		if itemID != nil {
			s.newItemID = itemID
		}
	}
}

// WithLogger sets the logger used for operation logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logging.NewComponentLogger(logger, component)
	}
}

// WithIndex enables ListIDs.
func WithIndex(index docstore.Index) Option {
	return func(s *Service) {
		s.index = index
	}
}

// New constructs a Service over store.
func New(store docstore.Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		hasher:    SHA256Hasher{},
		now:       time.Now,
		newListID: NewListID,
		newItemID: NewItemID,
		logger:    logging.NewComponentLogger(nil, component),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateList stores a new empty list. A blank name falls back to the default
// name; an empty password leaves the list unprotected.
func (s *Service) CreateList(ctx context.Context, name, password string) (watchlist.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = watchlist.DefaultName
	}
	cleaned, err := watchlist.CleanName(name)
	if err != nil {
		return watchlist.List{}, wrap(ErrValidation, "create", "", err)
	}
	if err := checkPassword(password); err != nil {
		return watchlist.List{}, err
	}

	now := s.now().UTC()
	list := watchlist.List{
		ID:        s.newListID(),
		Name:      cleaned,
		Items:     []watchlist.Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if password != "" {
		list.PasswordHash = s.hasher.Hash(password)
	}
	ctx = services.WithListID(ctx, list.ID)
	if err := s.save(ctx, "create", list); err != nil {
		return watchlist.List{}, err
	}
	logging.WithContext(ctx, s.logger).Info("list created",
		logging.String("name", list.Name),
		logging.Bool("protected", list.Protected()),
	)
	return list, nil
}

// GetList returns the current document.
func (s *Service) GetList(ctx context.Context, id, credential string) (watchlist.List, error) {
	list, err := s.load(ctx, "get", id)
	if err != nil {
		return watchlist.List{}, err
	}
	if err := s.authorize(list, credential); err != nil {
		return watchlist.List{}, err
	}
	return list, nil
}

// AddItem validates the item, rejects duplicates by title, and inserts it at
// the front of the list.
func (s *Service) AddItem(ctx context.Context, id, credential string, item NewItem) (watchlist.List, error) {
	return s.ApplyMutation(ctx, id, credential, watchlist.Add{Item: watchlist.Item{
		ID:             item.ID,
		Title:          item.Title,
		AddedBy:        item.AddedBy,
		Poster:         item.Poster,
		RuntimeMinutes: item.RuntimeMinutes,
		ReleaseDate:    item.ReleaseDate,
		Rating:         item.Rating,
	}})
}

// UpdateItem merges patch into an existing item.
func (s *Service) UpdateItem(ctx context.Context, id, credential, itemID string, patch watchlist.Patch) (watchlist.List, error) {
	return s.ApplyMutation(ctx, id, credential, watchlist.Update{ID: itemID, Patch: patch})
}

// RemoveItem deletes an existing item.
func (s *Service) RemoveItem(ctx context.Context, id, credential, itemID string) (watchlist.List, error) {
	return s.ApplyMutation(ctx, id, credential, watchlist.Remove{ID: itemID})
}

// RenameList changes the list name.
func (s *Service) RenameList(ctx context.Context, id, credential, name string) (watchlist.List, error) {
	return s.ApplyMutation(ctx, id, credential, watchlist.Rename{Name: name})
}

// SetPassword sets, changes, or (with "") removes the list password. The
// current credential is required when the list is already protected.
func (s *Service) SetPassword(ctx context.Context, id, credential, password string) (watchlist.List, error) {
	if err := checkPassword(password); err != nil {
		return watchlist.List{}, err
	}
	hash := ""
	if password != "" {
		hash = s.hasher.Hash(password)
	}
	return s.apply(ctx, id, credential, watchlist.SetPasswordHash{Hash: hash})
}

// DeleteList removes the list document.
func (s *Service) DeleteList(ctx context.Context, id, credential string) error {
	ctx = services.WithListID(ctx, id)
	list, err := s.load(ctx, "delete", id)
	if err != nil {
		return err
	}
	if err := s.authorize(list, credential); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return wrap(ErrNotFound, "delete", "list "+id, nil)
		}
		return s.storeFailure(ctx, "delete", err)
	}
	logging.WithContext(ctx, s.logger).Info("list deleted")
	return nil
}

// ApplyMutation validates m against the current document and persists the
// engine's result. It is the single write path: the item-level operations
// above are thin wrappers around it. Setting a password hash directly is not
// accepted; use SetPassword.
func (s *Service) ApplyMutation(ctx context.Context, id, credential string, m watchlist.Mutation) (watchlist.List, error) {
	if _, ok := m.(watchlist.SetPasswordHash); ok {
		return watchlist.List{}, wrap(ErrValidation, "mutate", "password changes must use SetPassword", nil)
	}
	return s.apply(ctx, id, credential, m)
}

// ListIDs returns every indexed list id.
func (s *Service) ListIDs(ctx context.Context) ([]string, error) {
	if s.index == nil {
		return nil, ErrIndexDisabled
	}
	keys, err := s.index.Keys(ctx)
	if err != nil {
		return nil, s.storeFailure(ctx, "list", err)
	}
	return keys, nil
}

func (s *Service) apply(ctx context.Context, id, credential string, m watchlist.Mutation) (watchlist.List, error) {
	ctx = services.WithListID(ctx, id)
	op := "mutate"
	if m != nil {
		op = string(m.Kind())
	}

	current, err := s.load(ctx, op, id)
	if err != nil {
		return watchlist.List{}, err
	}
	if err := s.authorize(current, credential); err != nil {
		return watchlist.List{}, err
	}

	now := s.now().UTC()
	prepared, err := s.prepare(current, m, now)
	if err != nil {
		return watchlist.List{}, err
	}
	next, err := watchlist.Apply(current, prepared, now)
	if err != nil {
		return watchlist.List{}, wrap(ErrValidation, op, "", err)
	}
	if err := s.save(ctx, op, next); err != nil {
		return watchlist.List{}, err
	}
	logging.WithContext(ctx, s.logger).Debug("mutation applied",
		logging.String(logging.FieldMutation, op),
		logging.Int64(logging.FieldVersion, next.Version),
		logging.Int("items", len(next.Items)),
	)
	return next, nil
}

// prepare validates m against current and returns the mutation the engine
// should apply, with ids and timestamps filled in.
func (s *Service) prepare(current watchlist.List, m watchlist.Mutation, now time.Time) (watchlist.Mutation, error) {
	switch mut := m.(type) {
	case watchlist.Add:
		item, err := watchlist.CleanItem(mut.Item)
		if err != nil {
			return nil, wrap(ErrValidation, "add", "", err)
		}
		if item.ID != "" && current.Has(item.ID) {
			// Replay of an add that already landed; the engine keeps the list as is.
			return watchlist.Add{Item: item}, nil
		}
		if existing, dup := findDuplicate(current.Items, item); dup {
			return nil, wrap(ErrConflict, "add", fmt.Sprintf("%q duplicates item %s", item.Title, existing.ID), nil)
		}
		if item.ID == "" {
			item.ID = s.newItemID()
		}
		item.CreatedAt = now
		item.UpdatedAt = now
		return watchlist.Add{Item: item}, nil
	case watchlist.Update:
		if !current.Has(mut.ID) {
			return nil, wrap(ErrNotFound, "update", "item "+mut.ID, nil)
		}
		patch, err := watchlist.CleanPatch(mut.Patch)
		if err != nil {
			return nil, wrap(ErrValidation, "update", "", err)
		}
		return watchlist.Update{ID: mut.ID, Patch: patch}, nil
	case watchlist.Remove:
		if !current.Has(mut.ID) {
			return nil, wrap(ErrNotFound, "remove", "item "+mut.ID, nil)
		}
		return mut, nil
	case watchlist.Rename:
		name, err := watchlist.CleanName(mut.Name)
		if err != nil {
			return nil, wrap(ErrValidation, "rename", "", err)
		}
		return watchlist.Rename{Name: name}, nil
	case watchlist.FullReplace:
		items := make([]watchlist.Item, len(mut.Items))
		for i, item := range mut.Items {
			if strings.TrimSpace(item.ID) == "" {
				item.ID = s.newItemID()
			}
			if item.CreatedAt.IsZero() {
				item.CreatedAt = now
			}
			if item.UpdatedAt.IsZero() {
				item.UpdatedAt = item.CreatedAt
			}
			items[i] = item
		}
		cleaned, err := watchlist.CleanItems(items)
		if err != nil {
			return nil, wrap(ErrValidation, "full", "", err)
		}
		return watchlist.FullReplace{Items: cleaned}, nil
	case watchlist.SetPasswordHash:
		return mut, nil
	default:
		return nil, wrap(ErrValidation, "mutate", "", fmt.Errorf("%w: %T", watchlist.ErrUnknownMutation, m))
	}
}

func (s *Service) authorize(list watchlist.List, credential string) error {
	if !list.Protected() {
		return nil
	}
	if credential == "" {
		return wrap(ErrAuthRequired, "authorize", "list "+list.ID, nil)
	}
	if !s.hasher.Verify(credential, list.PasswordHash) {
		return wrap(ErrAuthIncorrect, "authorize", "list "+list.ID, nil)
	}
	return nil
}

func (s *Service) load(ctx context.Context, op, id string) (watchlist.List, error) {
	if !docstore.ValidKey(id) {
		return watchlist.List{}, wrap(ErrNotFound, op, "list "+id, nil)
	}
	data, err := s.store.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return watchlist.List{}, wrap(ErrNotFound, op, "list "+id, nil)
	}
	if err != nil {
		return watchlist.List{}, s.storeFailure(ctx, op, err)
	}
	var list watchlist.List
	if err := json.Unmarshal(data, &list); err != nil {
		return watchlist.List{}, s.storeFailure(ctx, op, fmt.Errorf("decode list %s: %w", id, err))
	}
	if list.Items == nil {
		list.Items = []watchlist.Item{}
	}
	return list, nil
}

func (s *Service) save(ctx context.Context, op string, list watchlist.List) error {
	data, err := json.Marshal(list)
	if err != nil {
		return s.storeFailure(ctx, op, fmt.Errorf("encode list %s: %w", list.ID, err))
	}
	if err := s.store.Set(ctx, list.ID, data); err != nil {
		return s.storeFailure(ctx, op, err)
	}
	return nil
}

func (s *Service) storeFailure(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	logging.WarnWithContext(logging.WithContext(ctx, s.logger), "document store operation failed", "store_failure",
		logging.String("operation", op),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the data directory and database file permissions"),
	)
	return wrap(ErrTransientStore, op, "", err)
}

func checkPassword(password string) error {
	if textutil.RuneLen(password) > maxPasswordLength {
		return wrap(ErrValidation, "password", fmt.Sprintf("must be at most %d characters", maxPasswordLength), nil)
	}
	return nil
}
