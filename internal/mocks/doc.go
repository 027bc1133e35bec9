// Package mocks provides shared test doubles for the service interfaces
// consumed by the HTTP layer.
//
// Each mock has one function field per interface method. When a field is
// nil the mock returns its default values instead:
//
//	svc := &mocks.MockCardService{
//	    GetCardFn: func(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
//	        return nil, store.ErrCardNotFound
//	    },
//	}
package mocks
