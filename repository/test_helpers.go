package repository

import (
	"bookie/database"
	"bookie/domain/interfaces"
)

// NewTestUnitOfWorkFactory creates a unit of work factory for tests. Every
// unit of work it creates shares the provided transactional publisher so
// tests can assert on flushed events.
func NewTestUnitOfWorkFactory(db *database.DB, publisher interfaces.TransactionalEventPublisher) interfaces.UnitOfWorkFactory {
	return NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return publisher
	})
}

// CreateTestUnitOfWork creates a single unit of work for testing
func CreateTestUnitOfWork(db *database.DB, publisher interfaces.TransactionalEventPublisher) interfaces.UnitOfWork {
	return NewTestUnitOfWorkFactory(db, publisher).Create()
}
