package inventory

import (
	"context"
	"fmt"
	"slices"
)

type CopyResult struct {
	BranchesCreated int `json:"branches_created"`
	ProductsCopied  int `json:"products_copied"`
}

// CopyStore appends every branch and product of src to dst. Branches already
// present in dst are reused, products are always appended.
func CopyStore(ctx context.Context, src, dst Store) (CopyResult, error) {
	var res CopyResult

	srcBranches, err := src.ListBranches(ctx)
	if err != nil {
		return res, fmt.Errorf("lendo filiais de origem: %w", err)
	}
	dstBranches, err := dst.ListBranches(ctx)
	if err != nil {
		return res, fmt.Errorf("lendo filiais de destino: %w", err)
	}
	existing := make([]string, 0, len(dstBranches))
	for _, b := range dstBranches {
		existing = append(existing, b.Name)
	}

	for _, b := range srcBranches {
		if !slices.Contains(existing, b.Name) {
			if _, err := dst.CreateBranch(ctx, b.Name); err != nil {
				return res, fmt.Errorf("criando filial %s: %w", b.Name, err)
			}
			existing = append(existing, b.Name)
			res.BranchesCreated++
		}

		products, err := src.ListProducts(ctx, b.Name)
		if err != nil {
			return res, fmt.Errorf("lendo produtos de %s: %w", b.Name, err)
		}
		for i := range products {
			products[i].ID = 0
		}
		if err := dst.InsertProducts(ctx, b.Name, products); err != nil {
			return res, fmt.Errorf("gravando produtos de %s: %w", b.Name, err)
		}
		res.ProductsCopied += len(products)
	}
	return res, nil
}
