package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/conlangforge/conlangforge/internal/client/models"
	"github.com/conlangforge/conlangforge/internal/markdownx"
)

var errNoConlang = errors.New("no conlang selected; run 'use' first")

// Words lists the selected conlang's words.
func (a *App) Words(ctx context.Context) error {
	if a.conlang == nil {
		return errNoConlang
	}

	list, err := a.api.ListWords(ctx, a.conlang.ID)
	if err != nil {
		fmt.Println("Server unreachable, showing cached words...")
		list, err = a.cache.Words.ListByConlang(ctx, a.conlang.ID)
		if err != nil {
			return err
		}
	}

	if len(list) == 0 {
		fmt.Println("No words yet.")
		return nil
	}
	for _, w := range list {
		if w.Gloss != "" {
			fmt.Printf("%s  %s - %s\n", w.ID, w.Text, w.Gloss)
		} else {
			fmt.Printf("%s  %s\n", w.ID, w.Text)
		}
	}
	return nil
}

// AddWord creates a word in the selected conlang.
func (a *App) AddWord(ctx context.Context) error {
	if a.conlang == nil {
		return errNoConlang
	}

	text, err := getSimpleText(a.reader, "Word", os.Stdout)
	if err != nil {
		return err
	}
	gloss, err := getSimpleText(a.reader, "Gloss (optional)", os.Stdout)
	if err != nil {
		return err
	}

	word, err := a.api.CreateWord(ctx, a.conlang.ID, text, gloss)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s (%s)\n", word.Text, word.ID)
	return nil
}

// Show fetches a word with its sections and prints them in display order.
// The fetched copy refreshes the local cache; when the server is down the
// cached copy is shown instead.
func (a *App) Show(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Word id", os.Stdout)
	if err != nil {
		return err
	}

	word, err := a.api.GetWord(ctx, id)
	if err == nil {
		if cacheErr := a.cache.StoreWord(ctx, word); cacheErr != nil {
			fmt.Println("Warning: could not refresh local cache:", cacheErr.Error())
		}
	} else {
		fmt.Println("Server unreachable, showing cached copy...")
		word, err = a.cache.LoadWord(ctx, id)
		if err != nil {
			return err
		}
	}

	printWord(word)
	return nil
}

func (a *App) DeleteWord(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Word id", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.DeleteWord(ctx, id); err != nil {
		return err
	}
	if err := a.cache.Words.Delete(ctx, id); err != nil {
		fmt.Println("Warning: could not evict cached word:", err.Error())
	}

	fmt.Println("Deleted.")
	return nil
}

// printWord renders a word for the terminal. Section markup coming from the
// server is converted back to markdown, which reads fine in a terminal.
func printWord(word *models.Word) {
	fmt.Printf("== %s", word.Text)
	if word.Gloss != "" {
		fmt.Printf(" (%s)", word.Gloss)
	}
	fmt.Println(" ==")

	for _, tag := range word.Tags {
		fmt.Printf("#%s ", tag.Name)
	}
	if len(word.Tags) > 0 {
		fmt.Println()
	}

	for _, sec := range word.Sections {
		fmt.Printf("\n[%d] %s (%s)\n", sec.Position, sec.Type, sec.ID)
		if sec.HTML == "" {
			continue
		}
		md, err := markdownx.FromHTML(sec.HTML)
		if err != nil {
			fmt.Println(sec.HTML)
			continue
		}
		fmt.Println(md)
	}
}
