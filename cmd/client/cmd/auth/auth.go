package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd - родительская команда для операций с доступом магазина к серверу
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Доступ магазина к серверу",
	Long:  `Регистрация магазина и получение токена.`,
}
