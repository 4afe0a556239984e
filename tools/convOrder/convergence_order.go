package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
)

var (
	csvFile string
)

// Reads a grid-refinement study and prints the observed convergence order of
// each convection scheme. Input rows: Scheme, Cells, ErrRMS, ErrMAX, where
// the errors are taken against a reference solution (analytic or a much
// finer grid).
func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a grid refinement study")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	studies := readCSV(csvFile)
	var names []string
	for name := range studies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		studies[name].Print()
	}
}

type RefinementStudy struct {
	scheme         string
	cells          []int
	errRMS, errMAX []float64
}

func (rs *RefinementStudy) Add(cells int, errRMS, errMAX float64) {
	rs.cells = append(rs.cells, cells)
	rs.errRMS = append(rs.errRMS, errRMS)
	rs.errMAX = append(rs.errMAX, errMAX)
}

// Print emits the observed order between each pair of successive grids:
// p = log(eCoarse/eFine) / log(nFine/nCoarse).
func (rs *RefinementStudy) Print() {
	sort.Sort(byCells{rs})
	fmt.Printf("Scheme = %s\n", rs.scheme)
	fmt.Printf("%8s %12s %12s %8s %8s\n", "cells", "errRMS", "errMAX", "pRMS", "pMAX")
	for i := range rs.cells {
		if i == 0 {
			fmt.Printf("%8d %12.4e %12.4e %8s %8s\n", rs.cells[i], rs.errRMS[i], rs.errMAX[i], "-", "-")
			continue
		}
		ratio := math.Log(float64(rs.cells[i]) / float64(rs.cells[i-1]))
		pRMS := math.Log(rs.errRMS[i-1]/rs.errRMS[i]) / ratio
		pMAX := math.Log(rs.errMAX[i-1]/rs.errMAX[i]) / ratio
		fmt.Printf("%8d %12.4e %12.4e %8.2f %8.2f\n", rs.cells[i], rs.errRMS[i], rs.errMAX[i], pRMS, pMAX)
	}
}

type byCells struct{ *RefinementStudy }

func (b byCells) Len() int           { return len(b.cells) }
func (b byCells) Less(i, j int) bool { return b.cells[i] < b.cells[j] }
func (b byCells) Swap(i, j int) {
	b.cells[i], b.cells[j] = b.cells[j], b.cells[i]
	b.errRMS[i], b.errRMS[j] = b.errRMS[j], b.errRMS[i]
	b.errMAX[i], b.errMAX[j] = b.errMAX[j], b.errMAX[i]
}

func readCSV(csvFile string) (studies map[string]*RefinementStudy) {
	var (
		records        [][]string
		err            error
		f              *os.File
		ok             bool
		rs             *RefinementStudy
		errRMS, errMAX float64
	)
	studies = make(map[string]*RefinementStudy)
	if f, err = os.Open(csvFile); err != nil {
		panic(err)
	}
	r := csv.NewReader(bufio.NewReader(f))
	if records, err = r.ReadAll(); err != nil {
		panic(err)
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		scheme, cellstxt := rec[0], rec[1]
		cells, _ := strconv.Atoi(cellstxt)
		if rs, ok = studies[scheme]; !ok {
			rs = &RefinementStudy{scheme: scheme}
			studies[scheme] = rs
		}
		_, _ = fmt.Sscanf(rec[2], "%f", &errRMS)
		_, _ = fmt.Sscanf(rec[3], "%f", &errMAX)
		rs.Add(cells, errRMS, errMAX)
	}
	return
}
