// issue_token emite un JWT para un operador. No hay endpoint de login:
// los tokens se entregan fuera de banda.
//
// Uso: go run ./cmd/issue_token -operator <id> -role operator
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/bimal-bp/DPR/pkg/config"
	"github.com/bimal-bp/DPR/pkg/jwt"
)

func main() {
	operator := flag.String("operator", "", "ID del operador (vacío = UUID nuevo)")
	role := flag.String("role", jwt.RoleOperator, "admin | operator | viewer")
	expMin := flag.Int("exp", 0, "minutos de validez (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	switch *role {
	case jwt.RoleAdmin, jwt.RoleOperator, jwt.RoleViewer:
	default:
		fmt.Fprintf(os.Stderr, "rol desconocido: %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if *operator == "" {
		*operator = uuid.NewString()
	}
	if *expMin <= 0 {
		*expMin = cfg.JWT.Expiration
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *operator, *role, cfg.JWT.Issuer, *expMin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
