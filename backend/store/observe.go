// ABOUTME: ProjectStore decorator that reports every operation's outcome
// ABOUTME: Used to feed store metrics without coupling backends to prometheus

package store

import (
	"context"

	"github.com/markalston/fabric-designer/backend/models"
)

// ObserveFunc receives the operation name and its error, nil on success.
type ObserveFunc func(op string, err error)

type observedStore struct {
	next    ProjectStore
	observe ObserveFunc
}

// Observe wraps s so that observe is called after every operation.
func Observe(s ProjectStore, observe ObserveFunc) ProjectStore {
	return &observedStore{next: s, observe: observe}
}

func (o *observedStore) Create(ctx context.Context, name string) (models.Project, error) {
	p, err := o.next.Create(ctx, name)
	o.observe("create", err)
	return p, err
}

func (o *observedStore) Get(ctx context.Context, id string) (models.Project, error) {
	p, err := o.next.Get(ctx, id)
	o.observe("get", err)
	return p, err
}

func (o *observedStore) List(ctx context.Context) ([]models.Project, error) {
	ps, err := o.next.List(ctx)
	o.observe("list", err)
	return ps, err
}

func (o *observedStore) Update(ctx context.Context, id string, u models.ProjectUpdate) (models.Project, error) {
	p, err := o.next.Update(ctx, id, u)
	o.observe("update", err)
	return p, err
}

func (o *observedStore) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := o.next.Delete(ctx, id)
	o.observe("delete", err)
	return ok, err
}

func (o *observedStore) Close() error {
	return o.next.Close()
}
