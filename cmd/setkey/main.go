// Команда setkey кладёт API-ключ генеративной модели в системное
// хранилище ключей. Сервер читает его оттуда при ai.use_keyring: true.
package main

import (
	"flag"
	"fmt"
	"os"
	"studyMate/internal/credential"
)

func main() {
	remove := flag.Bool("delete", false, "удалить сохранённый ключ")
	flag.Parse()

	store, err := credential.Open()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *remove {
		if err := store.Delete(credential.GeminiAPIKey); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println("Ключ удалён")
		return
	}

	key, err := resolveKey(flag.Arg(0), promptKey)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := store.Set(credential.GeminiAPIKey, key); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("Ключ сохранён")
}
