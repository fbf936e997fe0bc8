// errors.go - ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound - запись или файл не найдены.
	ErrNotFound = errors.New("файл не найден")
	// ErrValidation - ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrFileTooLarge - размер файла превышает PS_MAX_FILE_SIZE.
	ErrFileTooLarge = errors.New("размер файла превышает допустимый")
)
