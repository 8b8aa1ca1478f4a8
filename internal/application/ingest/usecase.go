// Package ingest procesa las cargas de archivos del inventario: el archivo
// base que lo inicializa y los archivos de actualización con movimientos.
// Aplica las reglas de orden (base antes que actualizaciones, base una sola
// vez) y la deduplicación por checksum.
package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
	"github.com/tu-usuario/inventario-dashboard/pkg/logger"
)

// Store es la porción del almacén que necesita la ingesta.
type Store interface {
	HasBase(inventoryName string) bool
	HasChecksum(inventoryName, checksum string) bool
	AddProducts(inventoryName string, products []entity.ProductInfo) int
	AddRecords(inventoryName string, records []entity.MovementRecord) int
	AddBatch(inventoryName, fileName, checksum string, rowsTotal, rowsImported int) entity.ImportBatch
}

// FileParser decodifica los Excel de carga.
type FileParser interface {
	ReadBaseFile(content []byte) (products []entity.ProductInfo, rowsTotal, skipped int, err error)
	ReadUpdateFile(content []byte) (records []entity.MovementRecord, rowsTotal, skipped int, err error)
}

// Checksummer calcula el checksum de deduplicación de un batch.
type Checksummer func(content []byte) string

// File es un archivo recibido en la carga multipart.
type File struct {
	Name    string
	Content []byte
}

// Result es la respuesta estructurada de una carga procesada.
type Result struct {
	Batch           entity.ImportBatch
	ProductsAdded   int
	RecordsAdded    int
	RowsSkipped     int
}

// RejectError es un rechazo de negocio con mensaje para el usuario
// (se responde con status 400 y {ok:false, error:mensaje}).
type RejectError struct{ msg string }

func (e *RejectError) Error() string { return e.msg }

func reject(format string, args ...any) error {
	return &RejectError{msg: fmt.Sprintf(format, args...)}
}

// IsReject reporta si el error es un rechazo de negocio.
func IsReject(err error) bool {
	var r *RejectError
	return errors.As(err, &r)
}

// UseCase orquesta la ingesta de archivos.
type UseCase struct {
	store    Store
	parser   FileParser
	checksum Checksummer
	log      *logger.Logger
}

// New construye el caso de uso.
func New(store Store, parser FileParser, checksum Checksummer, log *logger.Logger) *UseCase {
	return &UseCase{store: store, parser: parser, checksum: checksum, log: log.Component("ingest")}
}

// validateFile replica las validaciones del backend con sus mensajes.
func validateFile(f File, kind string) error {
	lower := strings.ToLower(f.Name)
	if !strings.HasSuffix(lower, ".xls") && !strings.HasSuffix(lower, ".xlsx") {
		return reject("Formato de archivo %s %q no válido. Solo se permiten archivos .xls o .xlsx", kind, f.Name)
	}
	if len(f.Content) == 0 {
		return reject("El archivo %s %q está vacío", kind, f.Name)
	}
	return nil
}

// Process aplica las reglas de carga y actualiza el almacén.
//
// Reglas (mismas del backend original):
//   - con base ya cargado, otro archivo base se rechaza;
//   - sin base cargado, las actualizaciones se rechazan;
//   - sin ningún archivo, se rechaza;
//   - un batch con el mismo checksum que uno previo se rechaza (dedupe).
func (uc *UseCase) Process(inventoryName string, base *File, updates []File) (*Result, error) {
	if base == nil && len(updates) == 0 {
		return nil, reject("Debe proporcionar un archivo (base para inicialización o actualización)")
	}

	hasBase := uc.store.HasBase(inventoryName)
	if base != nil {
		if err := validateFile(*base, "base"); err != nil {
			return nil, err
		}
		if hasBase {
			return nil, reject("El archivo base ya ha sido cargado. Solo puede cargar archivos de actualización.")
		}
	} else if !hasBase {
		return nil, reject("Debe cargar primero el archivo base para inicializar el inventario")
	}
	for _, u := range updates {
		if err := validateFile(u, "de actualización"); err != nil {
			return nil, err
		}
	}

	var checksumContent []byte
	var fileNames []string
	if base != nil {
		checksumContent = append(checksumContent, base.Content...)
		fileNames = append(fileNames, base.Name)
	}
	for _, u := range updates {
		checksumContent = append(checksumContent, u.Content...)
		fileNames = append(fileNames, u.Name)
	}
	checksum := uc.checksum(checksumContent)
	if uc.store.HasChecksum(inventoryName, checksum) {
		return nil, reject("Este archivo ya fue importado a este inventario")
	}

	result := &Result{}
	rowsTotal := 0

	if base != nil {
		products, rows, skipped, err := uc.parser.ReadBaseFile(base.Content)
		if err != nil {
			return nil, reject("Error al procesar el archivo base. Asegúrese de que sea un archivo Excel válido.")
		}
		result.ProductsAdded = uc.store.AddProducts(inventoryName, products)
		result.RowsSkipped += skipped
		rowsTotal += rows
		uc.log.Info().
			Str("inventario", inventoryName).
			Int("productos", result.ProductsAdded).
			Int("saltadas", skipped).
			Msg("archivo base procesado")
	}

	for _, u := range updates {
		records, rows, skipped, err := uc.parser.ReadUpdateFile(u.Content)
		if err != nil {
			return nil, reject("Error al procesar el archivo de actualización %q. Asegúrese de que sea un archivo Excel válido.", u.Name)
		}
		result.RecordsAdded += uc.store.AddRecords(inventoryName, records)
		result.RowsSkipped += skipped
		rowsTotal += rows
		uc.log.Info().
			Str("inventario", inventoryName).
			Str("archivo", u.Name).
			Int("movimientos", len(records)).
			Int("saltadas", skipped).
			Msg("archivo de actualización procesado")
	}

	imported := result.ProductsAdded + result.RecordsAdded
	result.Batch = uc.store.AddBatch(inventoryName, strings.Join(fileNames, ", "), checksum, rowsTotal, imported)
	return result, nil
}
