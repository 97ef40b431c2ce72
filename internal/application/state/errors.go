package state

import "fmt"

// PartialError indica que una operación de varios pasos falló después de que el backend
// ya aceptó escrituras previas. No hay rollback: Done describe lo que quedó persistido.
type PartialError struct {
	Op   string
	Done string
	Err  error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%s incompleta (%s): %v", e.Op, e.Done, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }
