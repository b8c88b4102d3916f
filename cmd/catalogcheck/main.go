// catalogcheck проверяет файл контента и правила перед выкладкой.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"investigation-server/internal/catalog"
)

func main() {
	contentPath := flag.String("content", "", "path to content YAML (empty checks the embedded catalog)")
	rulesPath := flag.String("rules", "", "path to gameplay rules YAML")
	flag.Parse()

	var (
		cat *catalog.Catalog
		err error
	)
	if *contentPath == "" {
		cat, err = catalog.LoadDefault()
	} else {
		cat, err = catalog.LoadFS(os.DirFS(filepath.Dir(*contentPath)), filepath.Base(*contentPath))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "content: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("content ok: start scene %q, %d scenes, %d dialogues\n",
		cat.StartScene(), len(cat.SceneNames()), len(cat.DialogueIDs()))
	for _, name := range cat.SceneNames() {
		def, _ := cat.Scene(name)
		fmt.Printf("  %-16s %d camera positions, %d interactables\n", name, len(def.CameraPositions), len(def.Interactables))
	}

	if *rulesPath != "" {
		rules, err := catalog.LoadRules(*rulesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rules: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("rules ok: %d photos per day, %d evidence pieces\n", rules.MaxPhotosPerDay, rules.TotalEvidencePieces)
	}
}
