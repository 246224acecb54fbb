// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	NamespaceNotFoundId Id = iota + 1
	BlueprintUnresolvableId
	ConfigLoadFailedId
	CommandModuleInvalidId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink
	extLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the markdown message with glamour using the given style
// ("dark", "light", "notty" or a JSON style path).
func (i *Issue) Render(stylePath string) (string, error) {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if links := append(i.DocLinks(), i.extLinks...); len(links) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range links {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(sb.String(), stylePath)
}

var (
	render = glamour.Render

	namespaceNotFoundIssue = &Issue{
		id: NamespaceNotFoundId,
		mdMsg: `
# Generator not found!

No generator is registered for the requested command, neither as a built-in
generator nor in any active blueprint.

## Things you can try:
- List the available namespaces:
~~~
$ jhipster namespaces
~~~
- Check the spelling of the command
- If the generator ships with a blueprint, enable it:
~~~
$ jhipster <command> --blueprints <name>
~~~`,
		docLinks: []HttpLink{"https://www.jhipster.tech/modules/creating-a-blueprint/"},
	}

	blueprintUnresolvableIssue = &Issue{
		id: BlueprintUnresolvableId,
		mdMsg: `
# Blueprint could not be resolved!

A blueprint requested on the command line or in .yo-rc.json was not found in
any search path and could not be installed.

## Things you can try:
- Install it next to your project:
~~~
$ npm install generator-jhipster-<name>
~~~
- Check the package name and version in .yo-rc.json
- Configure package_paths or install.git_url_template in config.cue`,
		docLinks: []HttpLink{"https://www.jhipster.tech/modules/marketplace/"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded!

The tool configuration file is missing or does not match the expected schema.

## Things you can try:
- Print the effective configuration:
~~~
$ jhipster config show
~~~
- Check the CUE syntax of config.cue
- Remove the --config flag to fall back to defaults`,
	}

	commandModuleInvalidIssue = &Issue{
		id: CommandModuleInvalidId,
		mdMsg: `
# Generator command definition is invalid!

A command.cue file (or the output of instantiate.sh) does not match the
command schema.

## Example command.cue:
~~~cue
description: "Generate a client application"
arguments: name: {type: "string", description: "Application name"}
options: skipInstall: {type: "boolean", description: "Skip npm install"}
imports: ["common"]
~~~`,
	}

	issues = map[Id]*Issue{
		namespaceNotFoundIssue.Id():     namespaceNotFoundIssue,
		blueprintUnresolvableIssue.Id(): blueprintUnresolvableIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		commandModuleInvalidIssue.Id():  commandModuleInvalidIssue,
	}
)

// Values returns the catalog sorted by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for is := range maps.Values(issues) {
		out = append(out, is)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
