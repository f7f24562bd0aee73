package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/conlangforge/conlangforge/internal/client/models"
)

func printConlangs(list []*models.Conlang) {
	if len(list) == 0 {
		fmt.Println("No conlangs.")
		return
	}
	for _, c := range list {
		visibility := "private"
		if c.Public {
			visibility = "public"
		}
		fmt.Printf("%s  %s (%s)\n", c.ID, c.Name, visibility)
	}
}

// Langs lists the public conlangs anyone can browse.
func (a *App) Langs(ctx context.Context) error {
	list, err := a.api.ListPublicConlangs(ctx)
	if err != nil {
		return err
	}
	printConlangs(list)
	return nil
}

// MyLangs lists the logged-in user's own conlangs, private ones included.
func (a *App) MyLangs(ctx context.Context) error {
	list, err := a.api.ListMyConlangs(ctx)
	if err != nil {
		return err
	}
	printConlangs(list)
	return nil
}

// NewLang creates a conlang and selects it.
func (a *App) NewLang(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Conlang name", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description (optional)", os.Stdout)
	if err != nil {
		return err
	}
	visibility, err := getSimpleText(a.reader, "Public? (y/N)", os.Stdout)
	if err != nil {
		return err
	}

	conlang, err := a.api.CreateConlang(ctx, name, description, strings.EqualFold(visibility, "y"))
	if err != nil {
		return err
	}

	a.conlang = conlang
	fmt.Printf("Created %s (%s)\n", conlang.Name, conlang.ID)
	return nil
}

// Use selects the conlang the word commands operate on.
func (a *App) Use(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Conlang id", os.Stdout)
	if err != nil {
		return err
	}

	conlang, err := a.api.GetConlang(ctx, id)
	if err != nil {
		return err
	}

	a.conlang = conlang
	fmt.Printf("Using %s\n", conlang.Name)
	return nil
}

// AddCategory creates a lexical category in the selected conlang.
func (a *App) AddCategory(ctx context.Context) error {
	if a.conlang == nil {
		return errNoConlang
	}

	label, err := getSimpleText(a.reader, "Category label", os.Stdout)
	if err != nil {
		return err
	}

	cat, err := a.api.CreateCategory(ctx, a.conlang.ID, label)
	if err != nil {
		return err
	}

	fmt.Printf("Created category %s (%s)\n", cat.Label, cat.ID)
	return nil
}
