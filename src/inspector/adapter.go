package inspector

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Adapter exposes the three inspector operations with the recovery policy applied:
// recoverable failures are logged and become empty results, everything else is returned.
type Adapter struct {
	enumerator *Enumerator
	indexer    *IndexBuilder
	translator *Translator
	logger     *zap.SugaredLogger
}

func NewAdapter(enumerator *Enumerator, indexer *IndexBuilder, translator *Translator, logger *zap.SugaredLogger) *Adapter {
	return &Adapter{
		enumerator: enumerator,
		indexer:    indexer,
		translator: translator,
		logger:     logger,
	}
}

// ListDatabases never fails; an unreadable data directory yields no databases.
func (a *Adapter) ListDatabases(ctx context.Context) []string {
	defer observe("listDatabases", time.Now())

	names, err := a.enumerator.ListDatabases(ctx)
	if err != nil {
		a.handleFailure("listDatabases", err)
		return []string{}
	}
	operationsTotal.WithLabelValues("listDatabases", outcomeOK).Inc()
	return names
}

// ListDisplayIDs never fails; an unreadable database yields no identifiers.
func (a *Adapter) ListDisplayIDs(ctx context.Context, database string) []string {
	defer observe("listDisplayIds", time.Now())

	ids, err := a.indexer.ListDisplayIDs(ctx, database)
	if err != nil {
		a.handleFailure("listDisplayIds", err)
		return []string{}
	}
	operationsTotal.WithLabelValues("listDisplayIds", outcomeOK).Inc()
	return ids
}

// ExecuteQuery returns an empty table for queries naming no document and for missing
// databases or documents. Failures reading a located document are returned.
func (a *Adapter) ExecuteQuery(ctx context.Context, database, query string) (*ResultTable, error) {
	defer observe("executeQuery", time.Now())

	table, err := a.translator.ExecuteQuery(ctx, database, query)
	if err != nil {
		if a.handleFailure("executeQuery", err) {
			return EmptyTable(), nil
		}
		return nil, err
	}
	operationsTotal.WithLabelValues("executeQuery", outcomeOK).Inc()
	return table, nil
}

// handleFailure logs err and reports whether it was recovered.
func (a *Adapter) handleFailure(op string, err error) bool {
	if !Recoverable(err) {
		operationsTotal.WithLabelValues(op, outcomeFailed).Inc()
		a.logger.Errorw("Inspector operation failed", "operation", op, "error", err)
		return false
	}

	operationsTotal.WithLabelValues(op, outcomeRecovered).Inc()
	if k := KindOf(err); k == KindNoReference || k == KindCanceled {
		a.logger.Debugw("Ignoring query", "operation", op, "reason", err)
	} else {
		a.logger.Warnw("Inspector operation returned no results", "operation", op, "error", err)
	}
	return true
}

func observe(op string, start time.Time) {
	operationSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
