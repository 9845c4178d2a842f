package repository

import "context"

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Tenants  TenantRepository
	Users    UserRepository
	Projects ProjectRepository
	Tasks    TaskRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(repos Repos) error) error
}
