package engine

// bubbleSort runs n-1 passes of adjacent compare/swap. After pass i the last
// element of the unsorted region is final.
func bubbleSort(r *run) error {
	n := len(r.arr)
	for i := 0; i < n-1; i++ {
		if err := r.check(); err != nil {
			return err
		}
		for j := 0; j < n-i-1; j++ {
			if err := r.compare(j, j+1); err != nil {
				return err
			}
			if r.arr[j] > r.arr[j+1] {
				if err := r.swap(j, j+1); err != nil {
					return err
				}
			}
		}
		if err := r.markSorted(n - i - 1); err != nil {
			return err
		}
	}
	return nil
}

// selectionSort scans the unsorted suffix for its minimum and swaps it into
// place only when it moved.
func selectionSort(r *run) error {
	n := len(r.arr)
	for i := 0; i < n; i++ {
		if err := r.check(); err != nil {
			return err
		}
		minIdx := i
		if err := r.selectIndex(minIdx); err != nil {
			return err
		}
		for j := i + 1; j < n; j++ {
			if err := r.compare(j, minIdx); err != nil {
				return err
			}
			if r.arr[j] < r.arr[minIdx] {
				minIdx = j
				if err := r.selectIndex(minIdx); err != nil {
					return err
				}
			}
		}
		if minIdx != i {
			if err := r.swap(i, minIdx); err != nil {
				return err
			}
		}
		if err := r.markSorted(i); err != nil {
			return err
		}
	}
	return nil
}

// insertionSort moves each key left past strictly-greater predecessors, one
// logged adjacent swap at a time.
func insertionSort(r *run) error {
	for i := 1; i < len(r.arr); i++ {
		if err := r.check(); err != nil {
			return err
		}
		for j := i; j > 0; j-- {
			if err := r.compare(j-1, j); err != nil {
				return err
			}
			if r.arr[j-1] <= r.arr[j] {
				break
			}
			if err := r.swap(j-1, j); err != nil {
				return err
			}
		}
	}
	return nil
}
