package drafts

import "context"

// NullStore discards drafts. Used when autosave is disabled.
type NullStore struct{}

func (NullStore) Get(context.Context, string) (*Draft, error) { return nil, ErrNotFound }
func (NullStore) Put(context.Context, *Draft) error           { return nil }
func (NullStore) Delete(context.Context, string) error        { return nil }
func (NullStore) List(context.Context) ([]*Draft, error)      { return nil, nil }
func (NullStore) Close() error                                { return nil }

var _ Store = NullStore{}
