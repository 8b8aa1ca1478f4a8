// Package dashboard mantiene el estado de las tres pestañas del dashboard
// (resumen, análisis, movimientos) fuera de cualquier widget: filtros como
// value objects explícitos, cargas independientes por pestaña y un token
// monotónico por pestaña que evita que una respuesta lenta y vieja pise a
// una más nueva ya aplicada.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/tu-usuario/inventario-dashboard/internal/domain"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/inventory"
	"github.com/tu-usuario/inventario-dashboard/pkg/logger"
)

// Backend es la porción del cliente API que consume el dashboard.
type Backend interface {
	GetSummary(ctx context.Context) (*entity.Summary, error)
	GetAnalysis(ctx context.Context, f inventory.FilterState) ([]entity.AnalysisItem, error)
	GetMovements(ctx context.Context, f inventory.FilterState) ([]entity.MovementRecord, error)
	GetMonthlyMovements(ctx context.Context, f inventory.FilterState) ([]entity.MonthlyMovement, error)
}

// FilterPrefs es el adaptador de persistencia de filtros de la pestaña de
// análisis. Se invoca explícitamente en cada cambio, nunca de forma implícita.
type FilterPrefs interface {
	LoadAnalysisFilters() inventory.FilterState
	SaveAnalysisFilters(f inventory.FilterState) error
}

// UseCase orquesta cargas y transformaciones para la presentación.
// Seguro para cargas concurrentes de pestañas distintas.
type UseCase struct {
	backend Backend
	prefs   FilterPrefs
	log     *logger.Logger

	mu sync.Mutex

	summaryToken   uint64
	analysisToken  uint64
	movementsToken uint64

	summary         *entity.Summary
	analysis        []entity.AnalysisItem
	products        []entity.Product
	movements       []entity.MovementRecord
	monthly         []entity.MonthlyMovement
	analysisFilters inventory.FilterState
	movementFilters inventory.FilterState
}

// New construye el caso de uso y restaura los filtros persistidos de la
// pestaña de análisis. prefs puede ser nil (sin persistencia, p.ej. tests).
func New(backend Backend, prefs FilterPrefs, log *logger.Logger) *UseCase {
	uc := &UseCase{
		backend: backend,
		prefs:   prefs,
		log:     log.Component("dashboard"),
	}
	if prefs != nil {
		uc.analysisFilters = prefs.LoadAnalysisFilters()
	}
	return uc
}

// ──────────────────────────────────────────────────────────────────────────────
// Filtros
// ──────────────────────────────────────────────────────────────────────────────

// AnalysisFilters devuelve los filtros vigentes de la pestaña de análisis.
func (uc *UseCase) AnalysisFilters() inventory.FilterState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.analysisFilters
}

// SetAnalysisFilters reemplaza los filtros del análisis y los persiste.
// Un fallo al persistir no invalida el cambio en memoria: se loggea y sigue.
func (uc *UseCase) SetAnalysisFilters(f inventory.FilterState) {
	uc.mu.Lock()
	uc.analysisFilters = f
	uc.mu.Unlock()

	if uc.prefs != nil {
		if err := uc.prefs.SaveAnalysisFilters(f); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudieron persistir los filtros de análisis")
		}
	}
}

// SetMovementFilters reemplaza los filtros de la pestaña de movimientos
// (no se persisten: solo el análisis guarda preferencias).
func (uc *UseCase) SetMovementFilters(f inventory.FilterState) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.movementFilters = f
}

// MovementFilters devuelve los filtros vigentes de movimientos.
func (uc *UseCase) MovementFilters() inventory.FilterState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.movementFilters
}

// ──────────────────────────────────────────────────────────────────────────────
// Cargas por pestaña
// ──────────────────────────────────────────────────────────────────────────────

// LoadSummary carga la pestaña de resumen. En fallo devuelve nil y el error:
// la pestaña muestra estado vacío más la notificación, nunca crashea.
func (uc *UseCase) LoadSummary(ctx context.Context) (*entity.Summary, error) {
	uc.mu.Lock()
	uc.summaryToken++
	token := uc.summaryToken
	uc.mu.Unlock()

	summary, err := uc.backend.GetSummary(ctx)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if token != uc.summaryToken {
		// Llegó tarde: ya hay una carga más nueva en vuelo o aplicada.
		return uc.summary, nil
	}
	if err != nil {
		uc.summary = nil
		return nil, err
	}
	uc.summary = summary
	return summary, nil
}

// AnalysisResult es lo que la pestaña de análisis necesita para renderizar:
// las filas filtradas y el resumen deduplicado por producto.
type AnalysisResult struct {
	Items    []entity.AnalysisItem
	Products []entity.Product
}

// LoadAnalysis carga la pestaña de análisis con los filtros vigentes: el
// backend aplica los filtros del query y los predicados locales refinan sobre
// la lista recibida (misma semántica si el backend ignora alguno).
func (uc *UseCase) LoadAnalysis(ctx context.Context) (AnalysisResult, error) {
	uc.mu.Lock()
	uc.analysisToken++
	token := uc.analysisToken
	filters := uc.analysisFilters
	uc.mu.Unlock()

	items, err := uc.backend.GetAnalysis(ctx, filters)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if token != uc.analysisToken {
		return AnalysisResult{Items: uc.analysis, Products: uc.products}, nil
	}
	if err != nil {
		uc.analysis, uc.products = nil, nil
		return AnalysisResult{}, err
	}

	filtered := inventory.FilterAnalysis(items, filters)
	products := inventory.DeriveProducts(filtered)
	uc.analysis, uc.products = filtered, products
	return AnalysisResult{Items: filtered, Products: products}, nil
}

// MovementsResult agrupa lo que muestra la pestaña de movimientos: las filas
// filtradas y su agregación mensual para el gráfico.
type MovementsResult struct {
	Records []entity.MovementRecord
	Monthly []entity.MonthlyMovement
	Skipped []inventory.SkippedRecord
}

// LoadMovements carga la pestaña de movimientos. La agregación mensual se
// pide al endpoint dedicado; si el backend no lo expone, se calcula localmente
// sobre las filas recibidas. Filas con fecha no parseable se reportan en
// Skipped y se loggean, nunca se pierden en silencio.
func (uc *UseCase) LoadMovements(ctx context.Context) (MovementsResult, error) {
	uc.mu.Lock()
	uc.movementsToken++
	token := uc.movementsToken
	filters := uc.movementFilters
	uc.mu.Unlock()

	records, err := uc.backend.GetMovements(ctx, filters)
	if err != nil {
		uc.mu.Lock()
		defer uc.mu.Unlock()
		if token == uc.movementsToken {
			uc.movements, uc.monthly = nil, nil
		}
		return MovementsResult{}, err
	}

	records = inventory.FilterMovements(records, filters)

	monthly, skipped := uc.monthlyFor(ctx, filters, records)
	for _, s := range skipped {
		uc.log.Warn().
			Int("fila", s.Index).
			Str("fecha", s.RawDate).
			Str("motivo", s.Reason).
			Msg("movimiento excluido de la agregación mensual")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if token != uc.movementsToken {
		return MovementsResult{Records: uc.movements, Monthly: uc.monthly}, nil
	}
	uc.movements, uc.monthly = records, monthly
	return MovementsResult{Records: records, Monthly: monthly, Skipped: skipped}, nil
}

// monthlyFor resuelve la agregación mensual: endpoint dedicado primero,
// cálculo local como fallback.
func (uc *UseCase) monthlyFor(
	ctx context.Context,
	filters inventory.FilterState,
	records []entity.MovementRecord,
) ([]entity.MonthlyMovement, []inventory.SkippedRecord) {
	monthly, err := uc.backend.GetMonthlyMovements(ctx, filters)
	if err == nil {
		return monthly, nil
	}

	if errors.Is(err, domain.ErrNotFound) {
		uc.log.Debug().Err(err).Msg("agregación mensual local (endpoint no disponible)")
	} else {
		uc.log.Warn().Err(err).Msg("agregación mensual local (endpoint falló)")
	}
	return inventory.AggregateMonthly(records)
}
