package fabric

import "fmt"

func errOutOfRange(name string, v int) error {
	return fmt.Errorf("fabric: %s=%d out of range", name, v)
}
