package engine

// mergeSort sorts the inclusive range [start, end].
func mergeSort(r *run, start, end int) error {
	if start >= end {
		return nil
	}
	mid := start + (end-start)/2
	if err := mergeSort(r, start, mid); err != nil {
		return err
	}
	if err := mergeSort(r, mid+1, end); err != nil {
		return err
	}
	return merge(r, start, mid, end)
}

// merge combines the sorted runs [start, mid] and [mid+1, end] through a buffer
// and writes the result back as a single mutation.
func merge(r *run, start, mid, end int) error {
	if err := r.check(); err != nil {
		return err
	}

	buf := make([]int, 0, end-start+1)
	i, j := start, mid+1
	for i <= mid && j <= end {
		if err := r.compare(i, j); err != nil {
			return err
		}
		if r.arr[i] <= r.arr[j] {
			buf = append(buf, r.arr[i])
			i++
		} else {
			buf = append(buf, r.arr[j])
			j++
		}
	}
	buf = append(buf, r.arr[i:mid+1]...)
	buf = append(buf, r.arr[j:end+1]...)

	if err := r.writeBack(start, buf); err != nil {
		return err
	}
	return r.markSorted(span(start, end)...)
}

// quickSort sorts the inclusive range [low, high].
func quickSort(r *run, low, high int) error {
	if low > high {
		return nil
	}
	if low == high {
		return r.markSorted(low)
	}
	p, err := partition(r, low, high)
	if err != nil {
		return err
	}
	if err := quickSort(r, low, p-1); err != nil {
		return err
	}
	return quickSort(r, p+1, high)
}

// partition is the Lomuto scheme with arr[high] as pivot. Cancellation is
// reported through the error, so the index is only meaningful when err is nil.
func partition(r *run, low, high int) (int, error) {
	if err := r.selectIndex(high); err != nil {
		return -1, err
	}
	pivot := r.arr[high]

	i := low - 1
	for j := low; j < high; j++ {
		if err := r.compare(j, high); err != nil {
			return -1, err
		}
		if r.arr[j] < pivot {
			i++
			if i != j {
				if err := r.swap(i, j); err != nil {
					return -1, err
				}
			}
		}
	}

	p := i + 1
	if p != high {
		if err := r.swap(p, high); err != nil {
			return -1, err
		}
	}
	if err := r.markSorted(p); err != nil {
		return -1, err
	}
	return p, nil
}

// heapSort builds a max-heap bottom-up, then repeatedly moves the root behind
// the shrinking heap.
func heapSort(r *run) error {
	n := len(r.arr)
	for i := n/2 - 1; i >= 0; i-- {
		if err := heapify(r, n, i); err != nil {
			return err
		}
	}
	for i := n - 1; i > 0; i-- {
		if err := r.check(); err != nil {
			return err
		}
		if err := r.swap(0, i); err != nil {
			return err
		}
		if err := r.markSorted(i); err != nil {
			return err
		}
		if err := heapify(r, i, 0); err != nil {
			return err
		}
	}
	return nil
}

// heapify sifts arr[i] down within the first n elements.
func heapify(r *run, n, i int) error {
	if err := r.check(); err != nil {
		return err
	}

	largest := i
	left, right := 2*i+1, 2*i+2
	if left < n {
		if err := r.compare(left, largest); err != nil {
			return err
		}
		if r.arr[left] > r.arr[largest] {
			largest = left
		}
	}
	if right < n {
		if err := r.compare(right, largest); err != nil {
			return err
		}
		if r.arr[right] > r.arr[largest] {
			largest = right
		}
	}

	if largest == i {
		return nil
	}
	if err := r.swap(i, largest); err != nil {
		return err
	}
	return heapify(r, n, largest)
}
