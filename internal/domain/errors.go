package domain

import "errors"

// Errores de dominio (sin dependencias externas).
//
// Taxonomía de fallos del cliente frente al backend:
//   - ErrNetwork: timeout o conexión rechazada; nunca se reintenta automáticamente.
//   - ErrDecode: respuesta que no es JSON o con forma inesperada.
//   - ErrServer: status no-2xx con cuerpo {ok:false, error:mensaje}.
//   - ErrValidation: rechazo local antes de tocar la red (archivo vacío, extensión inválida).
var (
	ErrNetwork         = errors.New("error de red contra el backend")
	ErrDecode          = errors.New("respuesta del backend no decodificable")
	ErrServer          = errors.New("el backend respondió con error")
	ErrValidation      = errors.New("entrada inválida")
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInventoryExists = errors.New("el inventario ya existe")
)
