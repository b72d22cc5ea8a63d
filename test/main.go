package main

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/infinivision/sectorfs/fs"
)

func main() {
	cfg := fs.DefaultConfig()
	cfg.Path = "test.img"
	cfg.Format = true
	f, err := fs.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	{
		if err := f.CreateDirectory("/u"); err != nil {
			log.Fatal(err)
		}
		if err := f.CreateDirectory("/u/b"); err != nil {
			log.Fatal(err)
		}
		for i := 0; i < 30; i++ {
			if err := f.Create(fmt.Sprintf("/u/b/u_%v", i), 200); err != nil {
				log.Fatal(err)
			}
		}
	}
	{
		for i := 0; i < 30; i++ {
			name := fmt.Sprintf("/u/b/u_%v", i)
			id, err := f.OpenFile(name)
			if err != nil {
				log.Fatal(err)
			}
			if _, err := f.WriteFile(id, []byte(fmt.Sprintf("%200v", i))); err != nil {
				log.Fatal(err)
			}
			if err := f.CloseFile(id); err != nil {
				log.Fatal(err)
			}
		}
	}
	{
		for i := 0; i < 30; i++ {
			name := fmt.Sprintf("/u/b/u_%v", i)
			id, err := f.OpenFile(name)
			if err != nil {
				log.Fatal(err)
			}
			v := make([]byte, 200)
			if _, err := f.ReadFile(id, v); err != nil {
				log.Fatal(err)
			}
			if bytes.Compare(v, []byte(fmt.Sprintf("%200v", i))) != 0 {
				log.Fatal(fmt.Errorf("%s is not %v - %v\n", name, i, v))
			}
			if err := f.CloseFile(id); err != nil {
				log.Fatal(err)
			}
		}
	}
	{
		es, err := f.List("/", true)
		if err != nil {
			log.Fatal(err)
		}
		if len(es) != 32 {
			log.Fatal(fmt.Errorf("expected 32 entries, got %v\n", len(es)))
		}
		if err := f.Print(os.Stdout); err != nil {
			log.Fatal(err)
		}
	}
	{
		if err := f.RemoveRecursively("/u"); err != nil {
			log.Fatal(err)
		}
		free, err := f.FreeSectors()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("free sectors after cleanup: %v\n", free)
	}
}
