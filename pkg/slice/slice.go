// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice adds the Map and Filter helpers missing from [slices].
package slice

// Map applies transform to every element. A nil input yields nil.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}
	return result
}

// Filter returns, in order, the elements for which keep is true.
//
// The result is a new slice and is never nil, so it encodes as [] in JSON.
func Filter[T any](input []T, keep func(T) bool) []T {
	result := make([]T, 0)
	for _, v := range input {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}
