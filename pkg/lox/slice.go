package lox

import "github.com/samber/lo"

// MapErr как Map, но останавливается на первой ошибке iteratee.
func MapErr[T, R any](collection []T, iteratee func(item T) (R, error)) ([]R, error) {
	var err error

	result := make([]R, len(collection))

	for i, item := range collection {
		result[i], err = iteratee(item)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Map как lo.Map, но iteratee без индекса: так можно передавать методы DTO
// вроде offerDTO.toEntity.
func Map[T, R any](collection []T, iteratee func(item T) R) []R {
	return lo.Map(collection, func(item T, _ int) R {
		return iteratee(item)
	})
}
