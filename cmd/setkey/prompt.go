package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

var errEmptyKey = errors.New("ключ не может быть пустым")

// resolveKey берёт ключ из аргумента, а без него спрашивает через prompt
func resolveKey(arg string, prompt func() (string, error)) (string, error) {
	key := strings.TrimSpace(arg)
	if key == "" {
		entered, err := prompt()
		if err != nil {
			return "", fmt.Errorf("ключ не введён: %w", err)
		}
		key = strings.TrimSpace(entered)
	}
	if key == "" {
		return "", errEmptyKey
	}
	return key, nil
}

// promptKey читает ключ без эха в терминал
func promptKey() (string, error) {
	var key string
	err := huh.NewInput().
		Title("API-ключ").
		Description("Ключ Gemini, ввод не отображается").
		EchoMode(huh.EchoModePassword).
		Value(&key).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errEmptyKey
			}
			return nil
		}).
		Run()
	return key, err
}
