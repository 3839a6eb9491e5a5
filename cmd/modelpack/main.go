// Command modelpack manages the weight files in a model directory:
// create a seeded network, inspect an existing file, or list the ids
// the directory holds.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chessmind/engine/internal/codec"
	"github.com/chessmind/engine/internal/model"
	"github.com/chessmind/engine/internal/store"
)

func main() {
	var (
		modelsDir = flag.String("models", "./models", "model directory")
		createID  = flag.String("create", "", "id of a new seeded model to write")
		inspectID = flag.String("inspect", "", "id of an existing model to describe")
		hidden    = flag.Int("hidden", 64, "hidden layer width for created models")
		seed      = flag.Int64("seed", 1, "weight seed for created models")
	)
	flag.Parse()

	switch {
	case *createID != "":
		if err := create(*modelsDir, *createID, *hidden, *seed); err != nil {
			fmt.Fprintf(os.Stderr, "create %s: %v\n", *createID, err)
			os.Exit(1)
		}
	case *inspectID != "":
		if err := inspect(*modelsDir, *inspectID); err != nil {
			fmt.Fprintf(os.Stderr, "inspect %s: %v\n", *inspectID, err)
			os.Exit(1)
		}
	default:
		if err := list(*modelsDir); err != nil {
			fmt.Fprintf(os.Stderr, "list %s: %v\n", *modelsDir, err)
			os.Exit(1)
		}
	}
}

func create(dir, id string, hidden int, seed int64) error {
	n, err := model.NewNetwork(codec.StateSize, hidden)
	if err != nil {
		return err
	}
	n.InitRandom(seed)

	path := filepath.Join(dir, id+".nnw")
	if err := model.WriteFile(path, n); err != nil {
		return err
	}
	fmt.Printf("wrote %s: input %d, hidden %d, %d parameters (seed %d)\n",
		path, n.InputSize(), n.HiddenSize(), n.ParameterCount(), seed)
	return nil
}

func inspect(dir, id string) error {
	path := filepath.Join(dir, id+".nnw")
	n, err := model.ReadFile(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	fmt.Printf("%s:\n", path)
	fmt.Printf("  input size:  %d\n", n.InputSize())
	fmt.Printf("  hidden size: %d\n", n.HiddenSize())
	fmt.Printf("  parameters:  %d\n", n.ParameterCount())
	fmt.Printf("  file size:   %d bytes\n", info.Size())
	return nil
}

func list(dir string) error {
	st, err := store.NewDirStore(dir)
	if err != nil {
		return err
	}
	ids, err := st.List()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("no models")
		return nil
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
