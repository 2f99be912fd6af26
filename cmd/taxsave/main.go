// Command taxsave plans monthly savings for upcoming tax payments and
// estimates the tax due on salary and dividend income.
package main

func main() {
	Execute()
}
