package app

// Поддерживаемые драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Config описывает минимальные настройки запуска приложения.
type Config struct {
	HTTPAddr            string
	OpsAddr             string
	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool
	APIKey              string
}

// DefaultConfig возвращает базовые адреса партнёрского API и служебного HTTP-сервера.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		OpsAddr:             ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
	}
}
