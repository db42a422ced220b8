// Package password хеширует и проверяет пароли пользователей форума.
//
// Пароли не хранятся в открытом виде: в хранилище попадает только bcrypt-хеш.
// bcrypt принимает не больше 72 байт, поэтому на вход ему идёт base64 от SHA-256
// пароля: длина пароля не ограничена, и все его байты влияют на хеш.
package password

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash возвращает bcrypt-хеш пароля с солью.
func Hash(password string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword(prehash(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare сверяет хеш с введённым паролем.
// Возвращает nil, если пароль совпадает.
func Compare(hash, password string) error {
	const op = "password.Compare"
	if err := bcrypt.CompareHashAndPassword([]byte(hash), prehash(password)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// prehash сводит пароль к 44 байтам ASCII без нулевых байтов.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
