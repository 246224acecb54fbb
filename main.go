// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/jhipster/generator-jhipster-sub006/cmd/jhipster"

func main() {
	cmd.Execute()
}
