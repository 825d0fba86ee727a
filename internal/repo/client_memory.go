package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
)

type InMemoryClientRepository struct {
	mu      sync.RWMutex
	clients []models.Client
	nextID  int
}

func NewInMemoryClientRepository() *InMemoryClientRepository {
	return &InMemoryClientRepository{
		clients: []models.Client{},
		nextID:  1,
	}
}

func (r *InMemoryClientRepository) List(_ context.Context) ([]models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Client{}, r.clients...), nil
}

func (r *InMemoryClientRepository) Create(_ context.Context, c models.Client) (models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.nextID
	r.nextID++
	r.clients = append(r.clients, c)
	return c, nil
}

func (r *InMemoryClientRepository) GetByID(_ context.Context, id int) (models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Client{}, ErrClientNotFound
}

func (r *InMemoryClientRepository) Update(_ context.Context, client models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.clients {
		if c.ID == client.ID {
			r.clients[i] = client
			return nil
		}
	}
	return ErrClientNotFound
}

func (r *InMemoryClientRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.clients {
		if c.ID == id {
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			return nil
		}
	}
	return ErrClientNotFound
}

func (r *InMemoryClientRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
