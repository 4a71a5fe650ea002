// Command cachecoreutil runs and inspects cachecore cache hierarchies.
package main

import "github.com/sarchlab/cachecore/cmd/cachecoreutil"

func main() {
	cachecoreutil.Execute()
}
