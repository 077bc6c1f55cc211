// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command rewrite is a thin CLI over the resolution and recipe core: it
// resolves a root POM's dependency graph and runs declarative recipes
// against it, the way a build-tool plugin driving this module would.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "rewrite",
		Short: "Maven dependency resolution and recipe runner",
		Long: `rewrite resolves a Maven POM's dependency graph through a layered
cache and runs refactoring recipes (declarative YAML or built-in) against
its manifest tags.`,
	}
	root.AddCommand(newResolveCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newCacheCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
