// Package embedded содержит встроенные ресурсы приложения.
package embedded

import (
	_ "embed"
)

// ConfigExample - пример конфигурации со значениями по умолчанию.
//
//go:embed config.example.yaml
var ConfigExample []byte
