package installer

// Plugins clones the framework plugins and replaces the plugin list in ~/.zshrc.
// Plugins the user had listed before are dropped from the list, not uninstalled.
type Plugins struct{}

func (Plugins) Name() string  { return "Plugins" }
func (Plugins) Mutates() bool { return true }

func (p Plugins) Apply(d *Deps) error {
	for _, plugin := range d.Manifest.Plugins.Repos {
		dir := d.Settings.PluginDir(plugin.Name)
		err := d.ensure(p.Name(), Target{
			Name:    plugin.Name,
			Present: func() bool { return d.dirExists(dir) },
			Install: func() error { return d.gitClone(plugin.Repo, dir) },
		})
		if err != nil {
			return err
		}
	}

	return d.replaceLine(p.Name(), "plugin list", d.Manifest.Plugins.Prefix, d.Manifest.Plugins.Line)
}
