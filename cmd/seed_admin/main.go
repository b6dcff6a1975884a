// seed_admin genera el script SQL que crea la primera cuenta systemAdmin.
//
// Uso: go run ./cmd/seed_admin <username> <password> [salida.sql]
// Sin ruta de salida escribe el SQL en stdout. El password se guarda como hash bcrypt.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/jobcards-api/internal/application/auth"
	"github.com/jhoicas/jobcards-api/internal/domain/entity"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Uso: seed_admin <username> <password> [salida.sql]")
		os.Exit(2)
	}
	username := strings.TrimSpace(os.Args[1])
	password := os.Args[2]
	if username == "" {
		fmt.Fprintln(os.Stderr, "username es requerido")
		os.Exit(1)
	}
	if len(password) < auth.MinPasswordLength {
		fmt.Fprintf(os.Stderr, "la contraseña debe tener al menos %d caracteres\n", auth.MinPasswordLength)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash de contraseña: %v\n", err)
		os.Exit(1)
	}
	user := entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         entity.RoleSystemAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	var out io.Writer = os.Stdout
	if len(os.Args) > 3 {
		f, err := os.Create(os.Args[3])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := writeSeed(out, user); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	if out != os.Stdout {
		fmt.Printf("Generado %s: usuario %s (systemAdmin)\n", os.Args[3], username)
	}
}

// writeSeed escribe el INSERT idempotente (ON CONFLICT por username) del usuario.
func writeSeed(w io.Writer, u entity.User) error {
	ts := u.CreatedAt.Format(time.RFC3339)
	_, err := fmt.Fprintf(w,
		"-- Cuenta inicial %s\n"+
			"INSERT INTO users (id, username, password_hash, role, created_at, updated_at)\n"+
			"VALUES ('%s', '%s', '%s', '%s', '%s', '%s')\n"+
			"ON CONFLICT (username) DO NOTHING;\n",
		u.Role, escapeSQL(u.ID), escapeSQL(u.Username), escapeSQL(u.PasswordHash), u.Role, ts, ts)
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
