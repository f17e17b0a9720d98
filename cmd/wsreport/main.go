// wsreport - WorkSpaces fleet usage report.
package main

func main() {
	Execute()
}
