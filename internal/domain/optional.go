package domain

import (
	"encoding/json"
	"fmt"
)

// Optional guarda zero ou um valor. No JSON vira uma lista vazia ou uma lista
// de um único elemento, que é o formato esperado pela API de cadastro.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some cria um Optional preenchido.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None cria um Optional vazio.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// SomeIf só constrói o valor quando cond é verdadeiro.
func SomeIf[T any](cond bool, build func() T) Optional[T] {
	if !cond {
		return None[T]()
	}
	return Some(build())
}

// Get devolve o valor e se ele está presente.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Present informa se há valor.
func (o Optional[T]) Present() bool {
	return o.ok
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("[]"), nil
	}
	return json.Marshal([]T{o.value})
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	switch len(list) {
	case 0:
		*o = None[T]()
	case 1:
		*o = Some(list[0])
	default:
		return fmt.Errorf("lista com %d elementos onde no máximo 1 é aceito", len(list))
	}
	return nil
}
