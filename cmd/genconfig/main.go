package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"

	"github.com/leandrowaltz/provavida/pkg/config"
	"gopkg.in/yaml.v3"
)

func main() {
	var (
		outputPath string
		force      bool
		driver     string
		dsn        string
	)

	flag.StringVar(&outputPath, "output", "config.yaml", "Caminho para o arquivo de configuração de saída")
	flag.BoolVar(&force, "force", false, "Sobrescrever arquivo se existir")
	flag.StringVar(&driver, "driver", "", "Driver de banco de dados (sqlite, mysql, postgres)")
	flag.StringVar(&dsn, "dsn", "", "DSN do banco de dados")
	flag.Parse()

	// Verificar se o arquivo já existe
	if _, err := os.Stat(outputPath); err == nil && !force {
		fmt.Printf("Erro: arquivo %s já existe. Use --force para sobrescrever.\n", outputPath)
		os.Exit(1)
	}

	settings := config.DefaultSettings()
	if db, ok := settings["database"].(map[string]interface{}); ok {
		if driver != "" {
			db["driver"] = driver
		}
		if dsn != "" {
			db["dsn"] = dsn
		}
	}

	// Converter para YAML
	data, err := yaml.Marshal(settings)
	if err != nil {
		fmt.Printf("Erro ao serializar configuração: %v\n", err)
		os.Exit(1)
	}

	yamlStr := string(data)
	re := regexp.MustCompile(`(\s+passwordmode:\s+\S+)`)
	yamlStr = re.ReplaceAllString(yamlStr, `$1  # plaintext ou bcrypt`)
	re = regexp.MustCompile(`(\s+skipmigrations:\s+false)`)
	yamlStr = re.ReplaceAllString(yamlStr, `$1  # true pula as migrações na inicialização`)

	if err := os.WriteFile(outputPath, []byte(yamlStr), 0o600); err != nil {
		fmt.Printf("Erro ao escrever arquivo: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Arquivo de configuração gerado em: %s\n", outputPath)
}
